package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/dto"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/reorder"
	"ordertrack/internal/session"
)

type Session interface {
	Do(ctx context.Context, fn func(c *session.Components) error) error
}

type RowController struct {
	session Session
	logger  *zap.Logger
}

func NewRowController(s Session, logger *zap.Logger) *RowController {
	return &RowController{
		session: s,
		logger:  logger,
	}
}

func (c *RowController) Drag(w http.ResponseWriter, r *http.Request) {
	c.run(w, r, func(rec *reorder.Recognizer) (reorder.State, error) { return rec.State(), nil })
}

func (c *RowController) PointerDown(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var req dto.PointerDownRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	kind, ok := reorder.ParsePointerKind(req.Kind)
	if !ok {
		commons.WriteError(w, r, logger, traceID, apperrors.NewValidationError("invalid pointer", apperrors.ValidationDetail{
			Field:   "kind",
			Message: "kind must be one of mouse, touch, pen",
		}))
		return
	}

	c.run(w, r, func(rec *reorder.Recognizer) (reorder.State, error) {
		return rec.PointerDown(req.OrderID, kind, req.Button, req.Point)
	})
}

func (c *RowController) PointerMove(w http.ResponseWriter, r *http.Request) {
	var req dto.PointerRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.run(w, r, func(rec *reorder.Recognizer) (reorder.State, error) { return rec.PointerMove(req.Point), nil })
}

func (c *RowController) PointerUp(w http.ResponseWriter, r *http.Request) {
	var req dto.PointerRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.run(w, r, func(rec *reorder.Recognizer) (reorder.State, error) { return rec.PointerUp(req.Point) })
}

func (c *RowController) PointerCancel(w http.ResponseWriter, r *http.Request) {
	c.run(w, r, func(rec *reorder.Recognizer) (reorder.State, error) { return rec.PointerCancel(), nil })
}

func (c *RowController) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := commons.DecodeJSON(r, v); err != nil {
		logger, traceID := commons.RequestLogger(c.logger)
		commons.WriteError(w, r, logger, traceID, err)
		return false
	}
	return true
}

func (c *RowController) run(w http.ResponseWriter, r *http.Request, fn func(rec *reorder.Recognizer) (reorder.State, error)) {
	logger, traceID := commons.RequestLogger(c.logger)

	var state reorder.State
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		var err error
		state, err = fn(sc.Recognizer)
		return err
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, state)
}
