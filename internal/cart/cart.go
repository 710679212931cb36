// Package cart is the shopping-cart flow: fetch, add, quantity updates,
// removal, and checkout. The displayed total is always recomputed from
// the items; the server-reported total is shown only right after a
// fetch.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/render"
	"bookshop/internal/ui"
	"bookshop/internal/validate"
)

// State tracks the checkout sub-flow:
// Empty → Populated → CheckingOut → {Completed, Failed}.
type State int

const (
	StateEmpty State = iota
	StatePopulated
	StateCheckingOut
	StateCompleted
	StateFailed
)

// ErrEmptyCart guards checkout; no request is issued for an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	client  *api.Client
	coord   *mutate.Coordinator
	notify  ui.Notifier
	confirm ui.Confirm

	mu        sync.Mutex
	cart      entity.Cart
	loaded    bool
	state     State
	lastOrder *entity.Order
	onChange  func()
}

func New(client *api.Client, coord *mutate.Coordinator, notify ui.Notifier, confirm ui.Confirm, onChange func()) *Service {
	return &Service{client: client, coord: coord, notify: notify, confirm: confirm, onChange: onChange}
}

// Fetch replaces the local cart with server truth. On failure the prior
// cart stays visible.
func (s *Service) Fetch(ctx context.Context) error {
	var cart entity.Cart
	if err := s.client.Get(ctx, "/cart", &cart); err != nil {
		s.notify.Errorf("could not load cart: %v", err)
		return err
	}

	s.mu.Lock()
	s.cart = cart
	s.loaded = true
	if cart.Empty() {
		s.state = StateEmpty
	} else {
		s.state = StatePopulated
	}
	s.mu.Unlock()

	s.changed()
	return nil
}

func (s *Service) Cart() entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Total recomputes Σ price×quantity over the items.
func (s *Service) Total() decimal.Decimal { return s.Cart().Total() }

// LastOrder returns the order created by the most recent checkout.
func (s *Service) LastOrder() *entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOrder
}

type addRequest struct {
	BookID   string `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// Add puts quantity copies of a book in the cart and re-fetches.
func (s *Service) Add(ctx context.Context, bookID string, quantity int) error {
	req := addRequest{BookID: bookID, Quantity: quantity}
	return s.coord.Do(ctx, mutate.Op{
		Validate: func() *validate.FieldError { return validate.Struct(req) },
		Call: func(ctx context.Context) error {
			return s.client.Post(ctx, "/cart/add", req, nil)
		},
		Refresh:        s.Fetch,
		SuccessMessage: "added to cart",
	})
}

// UpdateQuantity applies a relative change. A change that would reach
// zero routes through the remove path instead of leaving a zero-quantity
// item behind.
func (s *Service) UpdateQuantity(ctx context.Context, bookID string, change int) error {
	item := s.Cart().Find(bookID)
	if item == nil {
		s.notify.Errorf("item not in cart")
		return fmt.Errorf("item %s not in cart", bookID)
	}

	newQuantity := item.Quantity + change
	if newQuantity <= 0 {
		return s.Remove(ctx, bookID)
	}

	body := struct {
		BookID   string `json:"bookId"`
		Quantity int    `json:"quantity"`
	}{bookID, newQuantity}

	return s.coord.Do(ctx, mutate.Op{
		Call: func(ctx context.Context) error {
			return s.client.Put(ctx, "/cart/update", body, nil)
		},
		Refresh:        s.Fetch,
		SuccessMessage: "quantity updated",
	})
}

// Remove deletes an item after confirmation. The backend reads the
// bookId from the DELETE body.
func (s *Service) Remove(ctx context.Context, bookID string) error {
	title := "this book"
	if item := s.Cart().Find(bookID); item != nil && item.Book != nil {
		title = item.Book.Title
	}

	body := struct {
		BookID string `json:"bookId"`
	}{bookID}

	return s.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{fmt.Sprintf("Remove %q from the cart?", title)},
		Call: func(ctx context.Context) error {
			return s.client.Delete(ctx, "/cart/remove", body)
		},
		Refresh:        s.Fetch,
		SuccessMessage: "removed from cart",
	})
}

// Checkout converts the cart into an order. An empty cart never issues
// the request. On failure the cart is left intact so the user can retry
// without re-adding items; on success the local cart is cleared.
func (s *Service) Checkout(ctx context.Context) error {
	s.mu.Lock()
	cart := s.cart
	total := cart.Total()
	s.mu.Unlock()

	if cart.Empty() {
		s.notify.Warnf("cart is empty")
		return ErrEmptyCart
	}

	if s.confirm != nil && !s.confirm(fmt.Sprintf("Confirm checkout of %s?", render.FormatPrice(total))) {
		return mutate.ErrCancelled
	}

	s.mu.Lock()
	s.state = StateCheckingOut
	s.mu.Unlock()

	body := struct {
		Items []entity.CartItem `json:"items"`
		Total decimal.Decimal   `json:"total"`
	}{cart.Items, total}

	var result entity.CheckoutResult
	if err := s.client.Post(ctx, "/checkout", body, &result); err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		s.notify.Errorf("checkout failed: %v", err)
		s.changed()
		return err
	}

	s.mu.Lock()
	s.cart = entity.Cart{}
	s.state = StateCompleted
	s.lastOrder = result.Order
	s.mu.Unlock()

	s.notify.Successf("order placed")
	s.changed()
	return nil
}

func (s *Service) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
