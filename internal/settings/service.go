// Package settings manages the commission rate charged per delivered order.
package settings

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "ordertrack/internal/errors"
)

type Repository interface {
	FindCommission(ctx context.Context) (decimal.Decimal, error)
	SaveCommission(ctx context.Context, value decimal.Decimal) error
}

// Service persists the commission when a repository is configured; without
// one the value lives only in the session.
type Service struct {
	repo     Repository
	fallback decimal.Decimal
	logger   *zap.Logger
}

func NewService(repo Repository, fallback decimal.Decimal, logger *zap.Logger) *Service {
	return &Service{repo: repo, fallback: fallback, logger: logger}
}

func ValidateCommission(value decimal.Decimal) error {
	if value.IsNegative() {
		return apperrors.NewValidationError("invalid commission", apperrors.ValidationDetail{
			Field:   "commission",
			Message: "commission must be non-negative",
		})
	}
	return nil
}

// Load returns the stored commission, or the configured default when nothing
// has been saved yet.
func (s *Service) Load(ctx context.Context) (decimal.Decimal, error) {
	if s.repo == nil {
		return s.fallback, nil
	}

	value, err := s.repo.FindCommission(ctx)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return s.fallback, nil
		}
		return decimal.Zero, apperrors.NewCapabilityUnavailableError("backend", err)
	}
	return value, nil
}

func (s *Service) Save(ctx context.Context, value decimal.Decimal) error {
	if err := ValidateCommission(value); err != nil {
		return err
	}
	if s.repo == nil {
		return nil
	}

	if err := s.repo.SaveCommission(ctx, value); err != nil {
		s.logger.Error("failed to persist commission", zap.Error(err))
		return apperrors.NewCapabilityUnavailableError("backend", err)
	}
	return nil
}
