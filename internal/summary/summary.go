// Package summary derives the financial totals shown above the grid.
package summary

import (
	"github.com/shopspring/decimal"

	"ordertrack/internal/domain"
)

type Summary struct {
	TotalOrders        int             `json:"totalOrders"`
	DeliveredCount     int             `json:"deliveredCount"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	TotalCommission    decimal.Decimal `json:"totalCommission"`
	Revenue            decimal.Decimal `json:"revenue"`
	DeliveryPercentage int64           `json:"deliveryPercentage"`
	Commission         decimal.Decimal `json:"commission"`
}

var hundred = decimal.NewFromInt(100)

// Calculate totals the delivered orders. Commission is a flat amount charged
// per delivered order. The percentage is rounded half away from zero and is
// zero for an empty collection.
func Calculate(orders []domain.Order, commission decimal.Decimal) Summary {
	s := Summary{
		TotalOrders:     len(orders),
		TotalAmount:     decimal.Zero,
		TotalCommission: decimal.Zero,
		Revenue:         decimal.Zero,
		Commission:      commission,
	}

	for _, o := range orders {
		if !o.IsDelivered() {
			continue
		}
		s.DeliveredCount++
		s.TotalAmount = s.TotalAmount.Add(o.Price)
	}

	s.TotalCommission = commission.Mul(decimal.NewFromInt(int64(s.DeliveredCount)))
	s.Revenue = s.TotalAmount.Sub(s.TotalCommission)

	if s.TotalOrders > 0 {
		pct := decimal.NewFromInt(int64(s.DeliveredCount)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(s.TotalOrders)))
		s.DeliveryPercentage = pct.Round(0).IntPart()
	}
	return s
}
