package commons

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/locale"
)

type ErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Notice  string                       `json:"notice,omitempty"`
	TraceID string                       `json:"traceId"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

// SuppressedResponse answers a gesture that was dropped on purpose. The
// client keeps the returned state and shows nothing.
type SuppressedResponse struct {
	Suppressed bool        `json:"suppressed"`
	Gesture    string      `json:"gesture"`
	Reason     string      `json:"reason"`
	State      interface{} `json:"state"`
}

// RequestLogger tags the logger with a fresh trace id for one request.
func RequestLogger(logger *zap.Logger) (*zap.Logger, string) {
	traceID := uuid.NewString()
	return logger.With(zap.String("traceId", traceID)), traceID
}

func Translator(r *http.Request) *locale.Translator {
	return locale.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

// DecodeJSON reads the request body into v, reporting malformed input as a
// validation error on the body.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps err to its status code and writes it with a translated
// notice for the operator.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, err error) {
	tr := Translator(r)

	if ve, ok := apperrors.IsValidationError(err); ok {
		logger.Info("validation failed", zap.String("message", ve.Message))
		WriteJSON(w, logger, http.StatusBadRequest, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: ve.Message,
			Notice:  tr.Translate(locale.KeyValidationFailed),
			TraceID: traceID,
			Details: ve.Details,
		})
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		logger.Info("resource not found", zap.String("message", nfe.Message))
		WriteJSON(w, logger, http.StatusNotFound, ErrorResponse{
			Error:   "NOT_FOUND",
			Message: nfe.Message,
			Notice:  tr.Translate(locale.KeyOrderNotFound),
			TraceID: traceID,
		})
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		logger.Info("conflict", zap.String("message", ce.Message))
		WriteJSON(w, logger, http.StatusConflict, ErrorResponse{
			Error:   "CONFLICT",
			Message: ce.Message,
			Notice:  tr.Translate(locale.KeyConflict),
			TraceID: traceID,
		})
		return
	}

	if cue, ok := apperrors.IsCapabilityUnavailableError(err); ok {
		logger.Warn("capability unavailable", zap.String("capability", cue.Capability), zap.Error(cue.Cause))
		WriteJSON(w, logger, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "CAPABILITY_UNAVAILABLE",
			Message: cue.Capability + " unavailable",
			Notice:  tr.Translate(locale.KeyCapabilityMissing),
			TraceID: traceID,
		})
		return
	}

	logger.Error("request failed", zap.Error(err))
	WriteJSON(w, logger, http.StatusInternalServerError, ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
		Notice:  tr.Translate(locale.KeyInternal),
		TraceID: traceID,
	})
}

// WriteResult writes state on success. A suppressed gesture is not an error
// for the client: it gets 200 with the unchanged state.
func WriteResult(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, state interface{}, err error) {
	if err == nil {
		WriteJSON(w, logger, http.StatusOK, state)
		return
	}
	if gce, ok := apperrors.IsGestureConflictError(err); ok {
		logger.Debug("gesture suppressed", zap.String("gesture", gce.Gesture), zap.String("reason", gce.Reason))
		WriteJSON(w, logger, http.StatusOK, SuppressedResponse{
			Suppressed: true,
			Gesture:    gce.Gesture,
			Reason:     gce.Reason,
			State:      state,
		})
		return
	}
	WriteError(w, r, logger, traceID, err)
}
