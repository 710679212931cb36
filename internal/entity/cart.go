package entity

import "github.com/shopspring/decimal"

// BookSnapshot is the denormalized book data carried inside a cart item
// for display and subtotal computation.
type BookSnapshot struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	CategoryName string          `json:"categoryName,omitempty"`
	Price        decimal.Decimal `json:"price"`
}

type CartItem struct {
	BookID   string        `json:"bookId"`
	Quantity int           `json:"quantity"`
	Book     *BookSnapshot `json:"book,omitempty"`
}

// Price returns the unit price, zero when the snapshot is missing.
func (i CartItem) Price() decimal.Decimal {
	if i.Book == nil {
		return decimal.Zero
	}
	return i.Book.Price
}

// Subtotal is price × quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

// Total recomputes the cart total from its items. The server-reported
// TotalAmount is displayed right after a fetch, but any local quantity
// change goes through this instead of trusting a cached field.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Find returns the item for bookID, or nil.
func (c Cart) Find(bookID string) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].BookID == bookID {
			return &c.Items[idx]
		}
		if b := c.Items[idx].Book; b != nil && b.ID == bookID {
			return &c.Items[idx]
		}
	}
	return nil
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }
