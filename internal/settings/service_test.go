package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "ordertrack/internal/errors"
)

type mockRepository struct {
	FindCommissionFunc func(ctx context.Context) (decimal.Decimal, error)
	SaveCommissionFunc func(ctx context.Context, value decimal.Decimal) error
}

func (m *mockRepository) FindCommission(ctx context.Context) (decimal.Decimal, error) {
	return m.FindCommissionFunc(ctx)
}

func (m *mockRepository) SaveCommission(ctx context.Context, value decimal.Decimal) error {
	return m.SaveCommissionFunc(ctx, value)
}

func TestService_LoadFallsBackToDefault(t *testing.T) {
	fallback := decimal.NewFromInt(25)

	t.Run("no repository", func(t *testing.T) {
		v, err := NewService(nil, fallback, zap.NewNop()).Load(context.Background())
		require.NoError(t, err)
		assert.True(t, fallback.Equal(v))
	})

	t.Run("nothing stored", func(t *testing.T) {
		repo := &mockRepository{FindCommissionFunc: func(context.Context) (decimal.Decimal, error) {
			return decimal.Zero, apperrors.NewNotFoundError("commission setting not found")
		}}
		v, err := NewService(repo, fallback, zap.NewNop()).Load(context.Background())
		require.NoError(t, err)
		assert.True(t, fallback.Equal(v))
	})

	t.Run("backend down", func(t *testing.T) {
		repo := &mockRepository{FindCommissionFunc: func(context.Context) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("dial tcp: refused")
		}}
		_, err := NewService(repo, fallback, zap.NewNop()).Load(context.Background())
		_, ok := apperrors.IsCapabilityUnavailableError(err)
		assert.True(t, ok)
	})
}

func TestService_Save(t *testing.T) {
	var saved decimal.Decimal
	repo := &mockRepository{SaveCommissionFunc: func(_ context.Context, v decimal.Decimal) error {
		saved = v
		return nil
	}}
	svc := NewService(repo, decimal.Zero, zap.NewNop())

	require.NoError(t, svc.Save(context.Background(), decimal.NewFromInt(50)))
	assert.True(t, decimal.NewFromInt(50).Equal(saved))

	err := svc.Save(context.Background(), decimal.NewFromInt(-1))
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}
