package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/dto"
	"ordertrack/internal/session"
	"ordertrack/internal/viewport"
)

type Session interface {
	Do(ctx context.Context, fn func(c *session.Components) error) error
}

type ViewportController struct {
	session Session
	logger  *zap.Logger
}

func NewViewportController(s Session, logger *zap.Logger) *ViewportController {
	return &ViewportController{
		session: s,
		logger:  logger,
	}
}

func (c *ViewportController) State(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) { return v.State(), nil })
}

func (c *ViewportController) Zoom(w http.ResponseWriter, r *http.Request) {
	var req dto.ZoomRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.AnchoredZoom(req.Scale, req.Anchor)
	})
}

func (c *ViewportController) Wheel(w http.ResponseWriter, r *http.Request) {
	var req dto.WheelRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.Wheel(req.DeltaY, req.Modifier, req.Cursor)
	})
}

func (c *ViewportController) PinchStart(w http.ResponseWriter, r *http.Request) {
	var req dto.PinchRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.PinchStart(req.P1, req.P2)
	})
}

func (c *ViewportController) PinchMove(w http.ResponseWriter, r *http.Request) {
	var req dto.PinchRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.PinchMove(req.P1, req.P2)
	})
}

func (c *ViewportController) PinchEnd(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) { return v.PinchEnd(), nil })
}

func (c *ViewportController) PanStart(w http.ResponseWriter, r *http.Request) {
	var req dto.PanRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.PanStart(req.Point)
	})
}

func (c *ViewportController) PanMove(w http.ResponseWriter, r *http.Request) {
	var req dto.PanRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.PanMove(req.Point)
	})
}

func (c *ViewportController) PanEnd(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) { return v.PanEnd(), nil })
}

func (c *ViewportController) Reset(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) { return v.Reset(), nil })
}

func (c *ViewportController) Fit(w http.ResponseWriter, r *http.Request) {
	var req dto.FitRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(v *viewport.Controller) (viewport.State, error) {
		return v.FitToContainer(req.Content, req.Container)
	})
}

// Resize flags a column resize in progress; viewport gestures are suppressed
// until it is cleared.
func (c *ViewportController) Resize(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var req dto.ResizeRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		sc.Resizing = req.Active
		if req.Active {
			sc.Page.PinchEnd()
			sc.Page.PanEnd()
			sc.Table.PinchEnd()
			sc.Table.PanEnd()
		}
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.ResizeResponse{Resizing: req.Active})
}

func (c *ViewportController) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := commons.DecodeJSON(r, v); err != nil {
		logger, traceID := commons.RequestLogger(c.logger)
		commons.WriteError(w, r, logger, traceID, err)
		return false
	}
	return true
}

func (c *ViewportController) apply(w http.ResponseWriter, r *http.Request, fn func(v *viewport.Controller) (viewport.State, error)) {
	logger, traceID := commons.RequestLogger(c.logger)
	name := chi.URLParam(r, "name")

	var (
		state viewport.State
		opErr error
	)
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		v, err := sc.Viewport(name)
		if err != nil {
			return err
		}
		state, opErr = fn(v)
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteResult(w, r, logger, traceID, state, opErr)
}
