package entity

import "github.com/shopspring/decimal"

type MonthlyRevenue struct {
	Month      int             `json:"month"`
	MonthName  string          `json:"monthName"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"orderCount"`
}

// RevenueReport matches /admin/revenue/monthly?year=.
type RevenueReport struct {
	Year            int              `json:"year"`
	TotalRevenue    decimal.Decimal  `json:"totalRevenue"`
	MonthlyRevenues []MonthlyRevenue `json:"monthlyRevenues"`
}

// TotalOrders sums order counts across the months.
func (r RevenueReport) TotalOrders() int {
	n := 0
	for _, m := range r.MonthlyRevenues {
		n += m.OrderCount
	}
	return n
}
