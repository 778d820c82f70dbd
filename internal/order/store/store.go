// Package store holds the session's ordered collection of orders. It is the
// single source of truth; the backend only mirrors it.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
)

// ChangeListener is told about every committed mutation. Implementations must
// not block: they are called from the session loop.
type ChangeListener interface {
	OrderSaved(order domain.Order, position int)
	OrdersCleared()
	OrdersReordered(ids []string)
}

type Option func(*Store)

func WithListener(l ChangeListener) Option {
	return func(s *Store) { s.listener = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// Store is not safe for concurrent use; callers serialise access.
type Store struct {
	orders   []domain.Order
	index    map[string]int
	listener ChangeListener
	now      func() time.Time
	newID    func() string
}

func New(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Len() int {
	return len(s.orders)
}

func (s *Store) Create(in domain.NewOrderInput) (domain.Order, error) {
	if err := in.Validate(); err != nil {
		return domain.Order{}, err
	}

	order := s.build(in)
	s.insert(order)
	return order, nil
}

// Append adds imported orders in sequence. Either every input is valid and
// all are inserted, or none is.
func (s *Store) Append(inputs []domain.NewOrderInput) ([]domain.Order, error) {
	var details []apperrors.ValidationDetail
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			ve, ok := apperrors.IsValidationError(err)
			if !ok {
				return nil, err
			}
			for _, d := range ve.Details {
				details = append(details, apperrors.ValidationDetail{
					Field:   fmt.Sprintf("orders[%d].%s", i, d.Field),
					Message: d.Message,
				})
			}
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("import validation failed", details...)
	}

	created := make([]domain.Order, 0, len(inputs))
	for _, in := range inputs {
		order := s.build(in)
		s.insert(order)
		created = append(created, order)
	}
	return created, nil
}

// Load replaces the contents with orders read from the backend. Listeners are
// not notified since the backend already holds these rows.
func (s *Store) Load(orders []domain.Order) {
	s.orders = make([]domain.Order, len(orders))
	copy(s.orders, orders)
	s.reindex()
}

func (s *Store) Get(id string) (domain.Order, error) {
	i, err := s.position(id)
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders[i], nil
}

func (s *Store) IndexOf(id string) (int, error) {
	return s.position(id)
}

func (s *Store) List(p domain.Partition) []domain.Order {
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.InPartition(p) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) IDs() []string {
	ids := make([]string, len(s.orders))
	for i, o := range s.orders {
		ids[i] = o.ID
	}
	return ids
}

// FindByCode returns the first order in sequence whose code matches.
func (s *Store) FindByCode(code string) (domain.Order, bool) {
	code = strings.TrimSpace(code)
	for _, o := range s.orders {
		if o.Code == code {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Store) UpdateComment(id, text string) (domain.Order, error) {
	return s.mutate(id, func(o *domain.Order) {
		o.Comment = text
	})
}

func (s *Store) UpdateStatus(id string, status domain.Status) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "unknown status " + string(status),
		})
	}
	return s.mutate(id, func(o *domain.Order) {
		o.Status = status
	})
}

func (s *Store) UpdateFields(id string, patch domain.OrderPatch) (domain.Order, error) {
	if err := patch.Validate(); err != nil {
		return domain.Order{}, err
	}
	return s.mutate(id, patch.Apply)
}

// MarkScanned flags the order; a non-empty status is applied as well.
func (s *Store) MarkScanned(id string, status domain.Status) (domain.Order, error) {
	return s.mutate(id, func(o *domain.Order) {
		o.IsScanned = true
		if status != "" {
			o.Status = status
		}
	})
}

// Move places the order at index to, clamped to the collection bounds.
func (s *Store) Move(id string, to int) error {
	from, err := s.position(id)
	if err != nil {
		return err
	}

	if to < 0 {
		to = 0
	}
	if to > len(s.orders)-1 {
		to = len(s.orders) - 1
	}
	if from == to {
		return nil
	}

	moved := s.orders[from]
	s.orders = append(s.orders[:from], s.orders[from+1:]...)
	s.orders = append(s.orders[:to], append([]domain.Order{moved}, s.orders[to:]...)...)
	s.reindex()

	if s.listener != nil {
		s.listener.OrdersReordered(s.IDs())
	}
	return nil
}

// Clear empties the store. Session settings such as the commission rate are
// held elsewhere and survive.
func (s *Store) Clear() {
	s.orders = nil
	s.index = make(map[string]int)

	if s.listener != nil {
		s.listener.OrdersCleared()
	}
}

func (s *Store) build(in domain.NewOrderInput) domain.Order {
	now := s.now()
	return domain.Order{
		ID:        s.newID(),
		Code:      strings.TrimSpace(in.Code),
		Client:    strings.TrimSpace(in.Client),
		Phone:     in.Phone,
		Price:     *in.Price,
		Status:    in.Status,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Store) insert(order domain.Order) {
	s.orders = append(s.orders, order)
	s.index[order.ID] = len(s.orders) - 1

	if s.listener != nil {
		s.listener.OrderSaved(order, len(s.orders)-1)
	}
}

func (s *Store) mutate(id string, fn func(o *domain.Order)) (domain.Order, error) {
	i, err := s.position(id)
	if err != nil {
		return domain.Order{}, err
	}

	fn(&s.orders[i])
	s.orders[i].UpdatedAt = s.now()

	if s.listener != nil {
		s.listener.OrderSaved(s.orders[i], i)
	}
	return s.orders[i], nil
}

func (s *Store) position(id string) (int, error) {
	i, ok := s.index[id]
	if !ok {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return i, nil
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.orders))
	for i, o := range s.orders {
		s.index[o.ID] = i
	}
}
