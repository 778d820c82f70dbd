package commons

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "ordertrack/internal/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("bad", apperrors.ValidationDetail{Field: "price"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", apperrors.NewNotFoundError("order with id x not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.NewConflictError("busy"), http.StatusConflict, "CONFLICT"},
		{"capability", apperrors.NewCapabilityUnavailableError("export", errors.New("disk full")), http.StatusServiceUnavailable, "CAPABILITY_UNAVAILABLE"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			WriteError(rec, req, zap.NewNop(), "trace-1", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.NotEmpty(t, body.Notice)
		})
	}
}

func TestWriteError_TranslatesNotice(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ar-DZ,ar;q=0.9")
	rec := httptest.NewRecorder()

	WriteError(rec, req, zap.NewNop(), "t", apperrors.NewNotFoundError("missing"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "الطلب غير موجود", body.Notice)
}

func TestWriteResult_SuppressedGesture(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	WriteResult(rec, req, zap.NewNop(), "t", map[string]float64{"scale": 1}, apperrors.NewGestureConflictError("pan", "comment editing"))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body SuppressedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Suppressed)
	assert.Equal(t, "pan", body.Gesture)
	assert.Equal(t, "comment editing", body.Reason)
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = http.NoBody

	var v struct{ A int }
	err := DecodeJSON(req, &v)
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "body", ve.Details[0].Field)
}
