package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ordertrack/internal/comment"
	"ordertrack/internal/commons"
	"ordertrack/internal/domain"
	"ordertrack/internal/dto"
	"ordertrack/internal/locale"
	"ordertrack/internal/session"
)

type Session interface {
	Do(ctx context.Context, fn func(c *session.Components) error) error
}

type CommentController struct {
	session Session
	logger  *zap.Logger
}

func NewCommentController(s Session, logger *zap.Logger) *CommentController {
	return &CommentController{
		session: s,
		logger:  logger,
	}
}

func (c *CommentController) State(w http.ResponseWriter, r *http.Request) {
	c.editorAction(w, r, func(*comment.Editor) error { return nil })
}

func (c *CommentController) Begin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c.editorAction(w, r, func(e *comment.Editor) error { return e.Begin(id) })
}

func (c *CommentController) Buffer(w http.ResponseWriter, r *http.Request) {
	var req dto.BufferRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger, traceID := commons.RequestLogger(c.logger)
		commons.WriteError(w, r, logger, traceID, err)
		return
	}
	c.editorAction(w, r, func(e *comment.Editor) error { return e.Change(req.Text) })
}

func (c *CommentController) TogglePriority(w http.ResponseWriter, r *http.Request) {
	var req dto.PriorityRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger, traceID := commons.RequestLogger(c.logger)
		commons.WriteError(w, r, logger, traceID, err)
		return
	}
	c.editorAction(w, r, func(e *comment.Editor) error { return e.TogglePriority(req.Priority) })
}

func (c *CommentController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.editorAction(w, r, func(e *comment.Editor) error {
		e.Cancel()
		return nil
	})
}

func (c *CommentController) Save(w http.ResponseWriter, r *http.Request) {
	c.commit(w, r, func(e *comment.Editor) (domain.Order, error) { return e.Save() })
}

func (c *CommentController) Blur(w http.ResponseWriter, r *http.Request) {
	c.commit(w, r, func(e *comment.Editor) (domain.Order, error) { return e.Blur() })
}

// SetPriority toggles a priority from the row badge, outside edit mode.
func (c *CommentController) SetPriority(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.PriorityRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger, traceID := commons.RequestLogger(c.logger)
		commons.WriteError(w, r, logger, traceID, err)
		return
	}
	c.commit(w, r, func(e *comment.Editor) (domain.Order, error) { return e.SetPriority(id, req.Priority) })
}

func (c *CommentController) editorAction(w http.ResponseWriter, r *http.Request, fn func(e *comment.Editor) error) {
	logger, traceID := commons.RequestLogger(c.logger)

	var state comment.State
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		if err := fn(sc.Editor); err != nil {
			return err
		}
		state = sc.Editor.State()
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, state)
}

func (c *CommentController) commit(w http.ResponseWriter, r *http.Request, fn func(e *comment.Editor) (domain.Order, error)) {
	logger, traceID := commons.RequestLogger(c.logger)

	var order domain.Order
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		var err error
		order, err = fn(sc.Editor)
		return err
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	logger.Debug("comment committed", zap.String("orderId", order.ID))
	commons.WriteJSON(w, logger, http.StatusOK, dto.CommentCommitResponse{
		Order:  dto.NewOrderResponse(order),
		Notice: commons.Translator(r).Translate(locale.KeyCommentSaved),
	})
}
