package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/domain"
	"ordertrack/internal/dto"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/session"
)

type StatusController struct {
	session Session
	logger  *zap.Logger
}

func NewStatusController(s Session, logger *zap.Logger) *StatusController {
	return &StatusController{
		session: s,
		logger:  logger,
	}
}

func (c *StatusController) Statuses(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, c.logger, http.StatusOK, domain.AllStatuses())
}

func (c *StatusController) Transitions(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	current, ok := domain.ParseStatus(chi.URLParam(r, "status"))
	if !ok {
		commons.WriteError(w, r, logger, traceID, invalidStatus(chi.URLParam(r, "status")))
		return
	}

	var transitions []domain.Status
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		transitions = sc.Status.AvailableTransitions(current)
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.StatusTransitionsResponse{
		Current:     current,
		Transitions: transitions,
	})
}

func (c *StatusController) Apply(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)
	id := chi.URLParam(r, "id")

	var req dto.UpdateStatusRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		commons.WriteError(w, r, logger, traceID, invalidStatus(req.Status))
		return
	}

	var order domain.Order
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		var err error
		order, err = sc.Status.ApplyTransition(id, status)
		return err
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(order))
}

func invalidStatus(s string) error {
	return apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
		Field:   "status",
		Message: "unknown status " + s,
	})
}
