package admin

import (
	"context"
	"fmt"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/ui"
)

type Revenue struct {
	client *api.Client
	notify ui.Notifier
}

func NewRevenue(client *api.Client, notify ui.Notifier) *Revenue {
	return &Revenue{client: client, notify: notify}
}

// Report fetches the month-by-month revenue breakdown for one year.
func (r *Revenue) Report(ctx context.Context, year int) (entity.RevenueReport, error) {
	var report entity.RevenueReport
	endpoint := fmt.Sprintf("/admin/revenue/monthly?year=%d", year)
	if err := r.client.Get(ctx, endpoint, &report); err != nil {
		r.notify.Errorf("could not load revenue report: %v", err)
		return entity.RevenueReport{}, err
	}
	return report, nil
}
