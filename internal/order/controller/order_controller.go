package controller

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/domain"
	"ordertrack/internal/dto"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/locale"
	"ordertrack/internal/priority"
	"ordertrack/internal/session"
	"ordertrack/internal/summary"
)

type Session interface {
	Do(ctx context.Context, fn func(c *session.Components) error) error
}

type OrderController struct {
	session Session
	logger  *zap.Logger
}

func NewOrderController(s Session, logger *zap.Logger) *OrderController {
	return &OrderController{
		session: s,
		logger:  logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	var order domain.Order
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		var err error
		order, err = sc.Store.Create(req.Input())
		return err
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	logger.Info("order created", zap.String("orderId", order.ID), zap.String("code", order.Code))
	commons.WriteJSON(w, logger, http.StatusCreated, dto.NewOrderResponse(order))
}

// List reads one partition. sort=priority puts prioritised orders first,
// lowest number first, keeping the stored sequence otherwise.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	partition, ok := domain.ParsePartition(r.URL.Query().Get("partition"))
	if !ok {
		commons.WriteError(w, r, logger, traceID, apperrors.NewValidationError("invalid partition", apperrors.ValidationDetail{
			Field:   "partition",
			Message: "partition must be one of all, active, delivered",
		}))
		return
	}

	sortBy := r.URL.Query().Get("sort")
	if sortBy != "" && sortBy != "priority" {
		commons.WriteError(w, r, logger, traceID, apperrors.NewValidationError("invalid sort", apperrors.ValidationDetail{
			Field:   "sort",
			Message: "sort must be empty or priority",
		}))
		return
	}

	var orders []domain.Order
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		orders = sc.Store.List(partition)
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	if sortBy == "priority" {
		sort.SliceStable(orders, func(i, j int) bool {
			return priority.Less(orders[i].Comment, orders[j].Comment)
		})
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.ListOrdersResponse{
		Orders:    dto.NewOrderResponses(orders),
		Partition: partition,
		Count:     len(orders),
	})
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)
	id := chi.URLParam(r, "id")

	var order domain.Order
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		var err error
		order, err = sc.Store.Get(id)
		return err
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)
	id := chi.URLParam(r, "id")

	var req dto.UpdateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	var order domain.Order
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		if req.Comment != nil && sc.Editor.EditingID() == id {
			return apperrors.NewConflictError("comment of order " + id + " is being edited")
		}
		var err error
		order, err = sc.Store.UpdateFields(id, req.Patch())
		return err
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	logger.Info("order updated", zap.String("orderId", id))
	commons.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(order))
}

// Clear removes every order. The commission rate stays as it is.
func (c *OrderController) Clear(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var removed int
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		removed = sc.Store.Len()
		sc.ClearAll()
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	logger.Info("orders cleared", zap.Int("removed", removed))
	commons.WriteJSON(w, logger, http.StatusOK, dto.ClearResponse{
		Notice: commons.Translator(r).Translate(locale.KeyOrdersCleared),
	})
}

func (c *OrderController) Summary(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var s summary.Summary
	err := c.session.Do(r.Context(), func(sc *session.Components) error {
		s = summary.Calculate(sc.Store.List(domain.PartitionAll), sc.Commission)
		return nil
	})
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, s)
}
