package dto

import (
	"ordertrack/internal/reorder"
	"ordertrack/internal/viewport"
)

type BufferRequest struct {
	Text string `json:"text"`
}

type PriorityRequest struct {
	Priority int `json:"priority"`
}

type CommentCommitResponse struct {
	Order  OrderResponse `json:"order"`
	Notice string        `json:"notice"`
}

type ZoomRequest struct {
	Scale  float64        `json:"scale"`
	Anchor viewport.Point `json:"anchor"`
}

type WheelRequest struct {
	DeltaY   float64        `json:"deltaY"`
	Modifier bool           `json:"modifier"`
	Cursor   viewport.Point `json:"cursor"`
}

type PinchRequest struct {
	P1 viewport.Point `json:"p1"`
	P2 viewport.Point `json:"p2"`
}

type PanRequest struct {
	Point viewport.Point `json:"point"`
}

type FitRequest struct {
	Content   viewport.Size `json:"content"`
	Container viewport.Size `json:"container"`
}

type ResizeRequest struct {
	Active bool `json:"active"`
}

type ResizeResponse struct {
	Resizing bool `json:"resizing"`
}

type PointerDownRequest struct {
	OrderID string        `json:"orderId"`
	Kind    string        `json:"kind"`
	Button  int           `json:"button"`
	Point   reorder.Point `json:"point"`
}

type PointerRequest struct {
	Point reorder.Point `json:"point"`
}
