package dto

import (
	"github.com/shopspring/decimal"

	"ordertrack/internal/domain"
	"ordertrack/internal/scan"
)

type CreateOrderRequest struct {
	Code    string           `json:"code"`
	Client  string           `json:"client"`
	Phone   string           `json:"phone"`
	Price   *decimal.Decimal `json:"price"`
	Status  domain.Status    `json:"status"`
	Comment string           `json:"comment"`
}

func (r CreateOrderRequest) Input() domain.NewOrderInput {
	return domain.NewOrderInput{
		Code:    r.Code,
		Client:  r.Client,
		Phone:   r.Phone,
		Price:   r.Price,
		Status:  r.Status,
		Comment: r.Comment,
	}
}

// UpdateOrderRequest is a manual cell edit; absent fields are left alone.
type UpdateOrderRequest struct {
	Code    *string          `json:"code"`
	Client  *string          `json:"client"`
	Phone   *string          `json:"phone"`
	Price   *decimal.Decimal `json:"price"`
	Comment *string          `json:"comment"`
}

func (r UpdateOrderRequest) Patch() domain.OrderPatch {
	return domain.OrderPatch{
		Code:    r.Code,
		Client:  r.Client,
		Phone:   r.Phone,
		Price:   r.Price,
		Comment: r.Comment,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse adds the derived priority badge and display text to the
// stored order.
type OrderResponse struct {
	domain.Order
	Priority    *int   `json:"priority,omitempty"`
	CommentText string `json:"commentText"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	resp := OrderResponse{Order: o, CommentText: o.CommentText()}
	if p, ok := o.Priority(); ok {
		resp.Priority = &p
	}
	return resp
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}

type ListOrdersResponse struct {
	Orders    []OrderResponse  `json:"orders"`
	Partition domain.Partition `json:"partition"`
	Count     int              `json:"count"`
}

type StatusTransitionsResponse struct {
	Current     domain.Status   `json:"current"`
	Transitions []domain.Status `json:"transitions"`
}

type ImportResponse struct {
	Imported int             `json:"imported"`
	Orders   []OrderResponse `json:"orders"`
	Notice   string          `json:"notice"`
}

type ClearResponse struct {
	Notice string `json:"notice"`
}

type CommissionRequest struct {
	Commission *decimal.Decimal `json:"commission"`
}

type CommissionResponse struct {
	Commission decimal.Decimal `json:"commission"`
}

type ScanRequest struct {
	Code string `json:"code"`
}

type ScanResponse struct {
	Outcome   scan.Outcome   `json:"outcome"`
	Code      string         `json:"code"`
	Order     *OrderResponse `json:"order,omitempty"`
	Message   string         `json:"message"`
	Direction string         `json:"direction"`
}
