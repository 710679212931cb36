package entity

import "github.com/shopspring/decimal"

// Book is the client-side view of a book. Lists are always replaced
// wholesale from server responses, never patched in place.
type Book struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"` // denormalized for display
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description,omitempty"`
}

// BookInput is the payload for creating or updating a book.
type BookInput struct {
	Title       string          `json:"title" validate:"required,min=2"`
	Author      string          `json:"author" validate:"required,min=2"`
	CategoryID  string          `json:"categoryId" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Description string          `json:"description,omitempty"`
}

// SearchResult matches the /books/search envelope.
type SearchResult struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
	Books   []Book `json:"books"`
}
