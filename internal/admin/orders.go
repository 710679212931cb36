// Package admin is the back-office: the all-customers order table with
// status and date-range filters, status overrides, the CSV export, and
// the revenue report.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/ui"
	"bookshop/internal/viewcache"
)

// OrdersPageSize matches the backend default for /admin/orders.
const OrdersPageSize = 10

// OrderFilters narrows the admin order list. Filtering happens on the
// server; changing a filter triggers a re-fetch, not a local pass.
type OrderFilters struct {
	Status   entity.Status
	FromDate string // YYYY-MM-DD
	ToDate   string
}

type Orders struct {
	client *api.Client
	coord  *mutate.Coordinator
	notify ui.Notifier
	cache  *viewcache.Cache[entity.AdminOrder]

	mu      sync.Mutex
	filters OrderFilters
}

func NewOrders(client *api.Client, coord *mutate.Coordinator, notify ui.Notifier, onChange func()) *Orders {
	o := &Orders{client: client, coord: coord, notify: notify}
	o.cache = viewcache.New(o.fetch,
		viewcache.WithServerPaging[entity.AdminOrder](OrdersPageSize),
		viewcache.WithNotifier[entity.AdminOrder](notify),
		viewcache.WithOnChange[entity.AdminOrder](onChange),
	)
	return o
}

func (o *Orders) fetch(ctx context.Context, page, limit int) ([]entity.AdminOrder, viewcache.PageInfo, error) {
	o.mu.Lock()
	filters := o.filters
	o.mu.Unlock()

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if filters.Status != "" {
		params.Set("status", string(filters.Status))
	}
	if filters.FromDate != "" {
		params.Set("fromDate", filters.FromDate)
	}
	if filters.ToDate != "" {
		params.Set("toDate", filters.ToDate)
	}

	var page0 struct {
		Orders     []entity.AdminOrder `json:"orders"`
		Page       int                 `json:"page"`
		Limit      int                 `json:"limit"`
		Total      int                 `json:"total"`
		TotalPages int                 `json:"totalPages"`
	}
	if err := o.client.Get(ctx, "/admin/orders?"+params.Encode(), &page0); err != nil {
		return nil, viewcache.PageInfo{}, err
	}
	return page0.Orders, viewcache.PageInfo{
		Page:       page0.Page,
		Limit:      page0.Limit,
		Total:      page0.Total,
		TotalPages: page0.TotalPages,
	}, nil
}

func (o *Orders) Cache() *viewcache.Cache[entity.AdminOrder] { return o.cache }

func (o *Orders) Refresh(ctx context.Context) error { return o.cache.Refresh(ctx) }

func (o *Orders) SetPage(ctx context.Context, page int) error {
	return o.cache.SetPage(ctx, page)
}

// SetFilters replaces the filter set and re-fetches from page zero.
func (o *Orders) SetFilters(ctx context.Context, filters OrderFilters) error {
	if filters.Status != "" && !filters.Status.Valid() {
		o.notify.Errorf("unknown status %q", filters.Status)
		return fmt.Errorf("unknown status %q", filters.Status)
	}
	o.mu.Lock()
	o.filters = filters
	o.mu.Unlock()
	return o.cache.SetPage(ctx, 0)
}

func (o *Orders) Filters() OrderFilters {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.filters
}

// Detail fetches one order with its line items and customer.
func (o *Orders) Detail(ctx context.Context, orderID string) (entity.AdminOrder, error) {
	var detail entity.AdminOrder
	if err := o.client.Get(ctx, "/admin/orders/"+orderID, &detail); err != nil {
		o.notify.Errorf("could not load order: %v", err)
		return entity.AdminOrder{}, err
	}
	return detail, nil
}

// SetStatus overrides an order's status. Admins may set any of the four
// statuses regardless of the customer-side transition rules.
func (o *Orders) SetStatus(ctx context.Context, orderID string, status entity.Status) error {
	if !status.Valid() {
		o.notify.Errorf("unknown status %q", status)
		return fmt.Errorf("unknown status %q", status)
	}

	body := struct {
		Status entity.Status `json:"status"`
	}{status}

	return o.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{fmt.Sprintf("Set order status to %s?", status)},
		Call: func(ctx context.Context) error {
			return o.client.Put(ctx, "/admin/orders/"+orderID+"/status", body, nil)
		},
		Refresh:        o.cache.Refresh,
		SuccessMessage: "order status updated",
	})
}

// ExportCSV downloads the order export for the current filter set and
// returns the raw CSV bytes.
func (o *Orders) ExportCSV(ctx context.Context) ([]byte, error) {
	filters := o.Filters()

	params := url.Values{}
	if filters.Status != "" {
		params.Set("status", string(filters.Status))
	}
	if filters.FromDate != "" {
		params.Set("fromDate", filters.FromDate)
	}
	if filters.ToDate != "" {
		params.Set("toDate", filters.ToDate)
	}
	endpoint := "/admin/orders/export"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	data, err := o.client.Download(ctx, endpoint)
	if err != nil {
		o.notify.Errorf("export failed: %v", err)
		return nil, err
	}
	o.notify.Successf("export ready (%d bytes)", len(data))
	return data, nil
}
