// Package order is the customer's order history: a server-paginated
// list, per-order detail, and the "mark received" action.
package order

import (
	"context"
	"fmt"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/ui"
	"bookshop/internal/viewcache"
)

// HistoryPageSize matches the backend default for /orders/history.
const HistoryPageSize = 10

type Service struct {
	client *api.Client
	coord  *mutate.Coordinator
	notify ui.Notifier
	cache  *viewcache.Cache[entity.Order]
}

func New(client *api.Client, coord *mutate.Coordinator, notify ui.Notifier, onChange func()) *Service {
	s := &Service{client: client, coord: coord, notify: notify}
	s.cache = viewcache.New(s.fetch,
		viewcache.WithServerPaging[entity.Order](HistoryPageSize),
		viewcache.WithNotifier[entity.Order](notify),
		viewcache.WithOnChange[entity.Order](onChange),
	)
	return s
}

// fetch asks the server for one history page. Pages are 0-based on the
// wire.
func (s *Service) fetch(ctx context.Context, page, limit int) ([]entity.Order, viewcache.PageInfo, error) {
	var history entity.OrderHistory
	endpoint := fmt.Sprintf("/orders/history?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, endpoint, &history); err != nil {
		return nil, viewcache.PageInfo{}, err
	}
	return history.Orders, viewcache.PageInfo{
		Page:       history.Page,
		Limit:      history.Limit,
		Total:      history.Total,
		TotalPages: history.TotalPages,
	}, nil
}

func (s *Service) Cache() *viewcache.Cache[entity.Order] { return s.cache }

func (s *Service) Refresh(ctx context.Context) error { return s.cache.Refresh(ctx) }

func (s *Service) SetPage(ctx context.Context, page int) error {
	return s.cache.SetPage(ctx, page)
}

// Detail fetches one order with its line items.
func (s *Service) Detail(ctx context.Context, orderID string) (entity.Order, error) {
	var o entity.Order
	if err := s.client.Get(ctx, "/orders/"+orderID, &o); err != nil {
		s.notify.Errorf("could not load order: %v", err)
		return entity.Order{}, err
	}
	return o, nil
}

// MarkReceived moves a PENDING or CONFIRMED order straight to COMPLETED.
// Orders in any other status do not offer the action, and no request is
// issued for them.
func (s *Service) MarkReceived(ctx context.Context, orderID string) error {
	var current *entity.Order
	for _, o := range s.cache.Items() {
		if o.OrderID == orderID {
			current = &o
			break
		}
	}
	if current != nil && !current.Status.CanMarkReceived() {
		s.notify.Warnf("order %s cannot be marked received in status %s", current.OrderNumber, current.Status)
		return fmt.Errorf("order %s in status %s", orderID, current.Status)
	}

	return s.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{"Mark this order as received?"},
		Call: func(ctx context.Context) error {
			return s.client.Put(ctx, "/orders/"+orderID+"/received", nil, nil)
		},
		Refresh:        s.cache.Refresh,
		SuccessMessage: "order marked as received",
	})
}
