package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
)

type recordingListener struct {
	saved     []domain.Order
	positions []int
	cleared   int
	reordered [][]string
}

func (l *recordingListener) OrderSaved(order domain.Order, position int) {
	l.saved = append(l.saved, order)
	l.positions = append(l.positions, position)
}

func (l *recordingListener) OrdersCleared() {
	l.cleared++
}

func (l *recordingListener) OrdersReordered(ids []string) {
	l.reordered = append(l.reordered, ids)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(opts ...Option) *Store {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixed }),
	}
	return New(append(base, opts...)...)
}

func input(code, price string) domain.NewOrderInput {
	p := decimal.RequireFromString(price)
	return domain.NewOrderInput{Code: code, Client: "client " + code, Phone: "0600", Price: &p}
}

func TestStore_Create(t *testing.T) {
	listener := &recordingListener{}
	s := newTestStore(WithListener(listener))

	order, err := s.Create(input("A1", "120.50"))
	require.NoError(t, err)

	assert.Equal(t, "id-1", order.ID)
	assert.Equal(t, domain.StatusNew, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, 1, s.Len())
	require.Len(t, listener.saved, 1)
	assert.Equal(t, 0, listener.positions[0])
}

func TestStore_Create_ValidationErrorInsertsNothing(t *testing.T) {
	s := newTestStore()

	_, err := s.Create(domain.NewOrderInput{Code: "A1"})
	require.Error(t, err)

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_IDsAreNeverReused(t *testing.T) {
	s := New()

	first, err := s.Create(input("A1", "1"))
	require.NoError(t, err)
	s.Clear()
	second, err := s.Create(input("A1", "1"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestStore_Append_AllOrNothing(t *testing.T) {
	s := newTestStore()

	bad := domain.NewOrderInput{Code: "B2"}
	_, err := s.Append([]domain.NewOrderInput{input("A1", "1"), bad})
	require.Error(t, err)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "orders[1].client", ve.Details[0].Field)
	assert.Equal(t, 0, s.Len())

	created, err := s.Append([]domain.NewOrderInput{input("A1", "1"), input("B2", "2")})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, []string{"id-1", "id-2"}, s.IDs())
}

func TestStore_Get_NotFound(t *testing.T) {
	s := newTestStore()

	_, err := s.Get("missing")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestStore_List_Partitions(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create(input("A1", "1"))
	b, _ := s.Create(input("B2", "2"))
	_, err := s.UpdateStatus(b.ID, domain.StatusDelivered)
	require.NoError(t, err)

	assert.Len(t, s.List(domain.PartitionAll), 2)
	active := s.List(domain.PartitionActive)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	delivered := s.List(domain.PartitionDelivered)
	require.Len(t, delivered, 1)
	assert.Equal(t, b.ID, delivered[0].ID)

	_, err = s.UpdateStatus(b.ID, domain.StatusRefused)
	require.NoError(t, err)
	assert.Empty(t, s.List(domain.PartitionDelivered))
}

func TestStore_List_ReturnsCopies(t *testing.T) {
	s := newTestStore()
	_, _ = s.Create(input("A1", "1"))

	list := s.List(domain.PartitionAll)
	list[0].Comment = "changed outside"

	order, err := s.Get("id-1")
	require.NoError(t, err)
	assert.Empty(t, order.Comment)
}

func TestStore_UpdateComment_OnlyTouchesOneOrder(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create(input("A1", "1"))
	b, _ := s.Create(input("B2", "2"))

	_, err := s.UpdateComment(a.ID, "3. fragile")
	require.NoError(t, err)

	gotA, _ := s.Get(a.ID)
	gotB, _ := s.Get(b.ID)
	assert.Equal(t, "3. fragile", gotA.Comment)
	assert.Empty(t, gotB.Comment)

	_, err = s.UpdateComment(a.ID, "")
	require.NoError(t, err)
	gotA, _ = s.Get(a.ID)
	assert.Equal(t, "", gotA.Comment)
}

func TestStore_UpdateStatus_InvalidStatus(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create(input("A1", "1"))

	_, err := s.UpdateStatus(a.ID, "Lost")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestStore_UpdateFields(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create(input("A1", "1"))

	phone := "0711"
	updated, err := s.UpdateFields(a.ID, domain.OrderPatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "0711", updated.Phone)
	assert.Equal(t, "A1", updated.Code)

	negative := decimal.NewFromInt(-3)
	_, err = s.UpdateFields(a.ID, domain.OrderPatch{Price: &negative})
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestStore_FindByCodeAndMarkScanned(t *testing.T) {
	s := newTestStore()
	_, _ = s.Create(input("A1", "1"))
	b, _ := s.Create(input("B2", "2"))

	found, ok := s.FindByCode(" B2 ")
	require.True(t, ok)
	assert.Equal(t, b.ID, found.ID)

	_, ok = s.FindByCode("Z9")
	assert.False(t, ok)

	scanned, err := s.MarkScanned(b.ID, "")
	require.NoError(t, err)
	assert.True(t, scanned.IsScanned)
	assert.Equal(t, domain.StatusNew, scanned.Status)

	scanned, err = s.MarkScanned(b.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, scanned.Status)
}

func TestStore_Move(t *testing.T) {
	listener := &recordingListener{}
	s := newTestStore(WithListener(listener))
	for _, code := range []string{"A", "B", "C", "D"} {
		_, err := s.Create(input(code, "1"))
		require.NoError(t, err)
	}

	require.NoError(t, s.Move("id-1", 2))
	assert.Equal(t, []string{"id-2", "id-3", "id-1", "id-4"}, s.IDs())

	require.NoError(t, s.Move("id-4", -5))
	assert.Equal(t, []string{"id-4", "id-2", "id-3", "id-1"}, s.IDs())

	require.NoError(t, s.Move("id-2", 99))
	assert.Equal(t, []string{"id-4", "id-3", "id-1", "id-2"}, s.IDs())

	i, err := s.IndexOf("id-1")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Len(t, listener.reordered, 3)

	require.NoError(t, s.Move("id-1", 2))
	assert.Len(t, listener.reordered, 3)

	_, ok := apperrors.IsNotFoundError(s.Move("missing", 0))
	assert.True(t, ok)
}

func TestStore_Clear(t *testing.T) {
	listener := &recordingListener{}
	s := newTestStore(WithListener(listener))
	_, _ = s.Create(input("A1", "1"))
	_, _ = s.Create(input("B2", "1"))

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List(domain.PartitionAll))
	assert.Equal(t, 1, listener.cleared)
	_, err := s.Get("id-1")
	assert.Error(t, err)
}

func TestStore_Load(t *testing.T) {
	listener := &recordingListener{}
	s := newTestStore(WithListener(listener))

	s.Load([]domain.Order{{ID: "x"}, {ID: "y"}})

	assert.Equal(t, []string{"x", "y"}, s.IDs())
	assert.Empty(t, listener.saved)

	_, err := s.Get("y")
	assert.NoError(t, err)
}
