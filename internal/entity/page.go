package entity

// Page is the list envelope the backend wraps collections in.
type Page[T any] struct {
	Content    []T `json:"content"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
