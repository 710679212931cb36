package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is an order's lifecycle state. PENDING → CONFIRMED → COMPLETED,
// with CANCELLED reachable from PENDING or CONFIRMED. COMPLETED and
// CANCELLED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is offered.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanMarkReceived reports whether the customer "mark received" action is
// offered. It drives the order directly to COMPLETED; admins are not
// bound by this and may set any status.
func (s Status) CanMarkReceived() bool {
	return s == StatusPending || s == StatusConfirmed
}

type OrderItem struct {
	BookTitle  string          `json:"bookTitle"`
	BookAuthor string          `json:"bookAuthor"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type Order struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	CreatedAt   time.Time       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	ItemCount   int             `json:"itemCount"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// AdminOrder is the admin listing row, which carries the customer too.
type AdminOrder struct {
	Order
	Username string `json:"username"`
	Email    string `json:"email"`
}

// OrderHistory matches the /orders/history envelope.
type OrderHistory struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
}

// CheckoutResult is what /checkout returns after envelope unwrap.
type CheckoutResult struct {
	Order *Order `json:"order"`
}
