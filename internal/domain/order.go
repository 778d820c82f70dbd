package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/priority"
)

type Order struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Client    string          `json:"client"`
	Phone     string          `json:"phone"`
	Price     decimal.Decimal `json:"price"`
	Status    Status          `json:"status"`
	Comment   string          `json:"comment"`
	IsScanned bool            `json:"isScanned"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Priority decodes the priority token stored at the start of the comment.
func (o Order) Priority() (int, bool) {
	p, ok, _ := priority.Decode(o.Comment)
	return p, ok
}

// CommentText is the comment without its priority token, as displayed next
// to the badge.
func (o Order) CommentText() string {
	_, _, remainder := priority.Decode(o.Comment)
	return remainder
}

func (o Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}

type Partition string

const (
	PartitionAll       Partition = "all"
	PartitionActive    Partition = "active"
	PartitionDelivered Partition = "delivered"
)

func ParsePartition(s string) (Partition, bool) {
	switch Partition(strings.ToLower(s)) {
	case "", PartitionAll:
		return PartitionAll, true
	case PartitionActive:
		return PartitionActive, true
	case PartitionDelivered:
		return PartitionDelivered, true
	}
	return "", false
}

// InPartition is evaluated on every read; the delivered partition is never
// stored separately.
func (o Order) InPartition(p Partition) bool {
	switch p {
	case PartitionActive:
		return !o.IsDelivered()
	case PartitionDelivered:
		return o.IsDelivered()
	default:
		return true
	}
}

type NewOrderInput struct {
	Code    string
	Client  string
	Phone   string
	Price   *decimal.Decimal
	Status  Status
	Comment string
}

// Validate checks required fields and fills the default status.
func (in *NewOrderInput) Validate() error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(in.Code) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "code", Message: "code is required"})
	}
	if strings.TrimSpace(in.Client) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "client", Message: "client is required"})
	}
	if in.Price == nil {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price is required"})
	} else if in.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}

	if in.Status == "" {
		in.Status = StatusNew
	} else if !in.Status.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "unknown status " + string(in.Status)})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// OrderPatch carries a manual edit of individual fields; nil fields are kept.
type OrderPatch struct {
	Code    *string
	Client  *string
	Phone   *string
	Price   *decimal.Decimal
	Comment *string
}

func (p OrderPatch) Validate() error {
	var details []apperrors.ValidationDetail

	if p.Code != nil && strings.TrimSpace(*p.Code) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "code", Message: "code must not be empty"})
	}
	if p.Client != nil && strings.TrimSpace(*p.Client) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "client", Message: "client must not be empty"})
	}
	if p.Price != nil && p.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (p OrderPatch) Apply(o *Order) {
	if p.Code != nil {
		o.Code = strings.TrimSpace(*p.Code)
	}
	if p.Client != nil {
		o.Client = strings.TrimSpace(*p.Client)
	}
	if p.Phone != nil {
		o.Phone = *p.Phone
	}
	if p.Price != nil {
		o.Price = *p.Price
	}
	if p.Comment != nil {
		o.Comment = *p.Comment
	}
}
