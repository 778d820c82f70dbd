package service

import (
	"go.uber.org/zap"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
)

type StatusRepository interface {
	UpdateStatus(id string, status domain.Status) (domain.Order, error)
}

type StatusService struct {
	repo   StatusRepository
	logger *zap.Logger
}

func NewStatusService(repo StatusRepository, logger *zap.Logger) *StatusService {
	return &StatusService{
		repo:   repo,
		logger: logger,
	}
}

// AvailableTransitions lists every status except current, in declaration
// order. Any status may move to any other.
func (s *StatusService) AvailableTransitions(current domain.Status) []domain.Status {
	all := domain.AllStatuses()
	out := make([]domain.Status, 0, len(all))
	for _, st := range all {
		if st != current {
			out = append(out, st)
		}
	}
	return out
}

// ApplyTransition overwrites the order's status. Delivered orders show up in
// the delivered partition on the next read.
func (s *StatusService) ApplyTransition(id string, status domain.Status) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "unknown status " + string(status),
		})
	}

	order, err := s.repo.UpdateStatus(id, status)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			s.logger.Warn("status change for unknown order", zap.String("orderId", id))
		}
		return domain.Order{}, err
	}

	s.logger.Info("order status changed",
		zap.String("orderId", id),
		zap.String("status", string(status)),
	)
	return order, nil
}
