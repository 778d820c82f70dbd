package controller

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/dto"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/session"
	"ordertrack/internal/settings"
)

type Session interface {
	Do(ctx context.Context, fn func(c *session.Components) error) error
}

type CommissionStore interface {
	Save(ctx context.Context, value decimal.Decimal) error
}

type SettingsController struct {
	session Session
	store   CommissionStore
	logger  *zap.Logger
}

func NewSettingsController(s Session, store CommissionStore, logger *zap.Logger) *SettingsController {
	return &SettingsController{
		session: s,
		store:   store,
		logger:  logger,
	}
}

func (c *SettingsController) GetCommission(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var commission decimal.Decimal
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		commission = sc.Commission
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.CommissionResponse{Commission: commission})
}

// PutCommission persists first; the session only changes once the backend
// has accepted the value.
func (c *SettingsController) PutCommission(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var req dto.CommissionRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}
	if req.Commission == nil {
		commons.WriteError(w, r, logger, traceID, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "commission",
			Message: "commission is required",
		}))
		return
	}
	if err := settings.ValidateCommission(*req.Commission); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	if err := c.store.Save(r.Context(), *req.Commission); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		sc.Commission = *req.Commission
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	logger.Info("commission updated", zap.String("commission", req.Commission.String()))
	commons.WriteJSON(w, logger, http.StatusOK, dto.CommissionResponse{Commission: *req.Commission})
}
