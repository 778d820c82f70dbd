// Package scan matches decoded barcodes against order codes and reports the
// feedback shown to the operator.
package scan

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
)

type Outcome string

const (
	Success   Outcome = "success"
	NotFound  Outcome = "not-found"
	Duplicate Outcome = "duplicate"
)

// Decoder turns a captured frame into a barcode string. ok is false when the
// frame holds no readable code.
type Decoder interface {
	Decode(ctx context.Context, frame []byte) (code string, ok bool, err error)
}

// PlainDecoder accepts frames that already carry the code as text, which is
// what keyboard-wedge handheld scanners produce.
type PlainDecoder struct{}

func (PlainDecoder) Decode(_ context.Context, frame []byte) (string, bool, error) {
	code := strings.TrimSpace(string(frame))
	return code, code != "", nil
}

type Repository interface {
	FindByCode(code string) (domain.Order, bool)
	MarkScanned(id string, status domain.Status) (domain.Order, error)
}

type Result struct {
	Outcome Outcome       `json:"outcome"`
	Code    string        `json:"code"`
	Order   *domain.Order `json:"order,omitempty"`
}

type Matcher struct {
	repo   Repository
	status domain.Status
	logger *zap.Logger
}

// NewMatcher builds a matcher. A non-empty status is applied to every order
// matched for the first time.
func NewMatcher(repo Repository, status domain.Status, logger *zap.Logger) *Matcher {
	return &Matcher{
		repo:   repo,
		status: status,
		logger: logger.With(zap.String("component", "scan")),
	}
}

// OnScanResult flags the first order whose code matches. A second scan of the
// same order reports duplicate and changes nothing.
func (m *Matcher) OnScanResult(code string) (Result, error) {
	code = strings.TrimSpace(code)
	result := Result{Code: code}

	order, ok := m.repo.FindByCode(code)
	if !ok {
		result.Outcome = NotFound
		m.logger.Info("scanned code matches no order", zap.String("code", code))
		return result, nil
	}

	if order.IsScanned {
		result.Outcome = Duplicate
		result.Order = &order
		return result, nil
	}

	updated, err := m.repo.MarkScanned(order.ID, m.status)
	if err != nil {
		return Result{}, err
	}

	result.Outcome = Success
	result.Order = &updated
	m.logger.Info("order scanned", zap.String("code", code), zap.String("orderId", updated.ID))
	return result, nil
}

// Decode runs the decoder outside the session loop. A nil decoder means no
// capture device is configured.
func Decode(ctx context.Context, d Decoder, frame []byte) (string, bool, error) {
	if d == nil {
		return "", false, apperrors.NewCapabilityUnavailableError("barcode", nil)
	}

	code, ok, err := d.Decode(ctx, frame)
	if err != nil {
		return "", false, apperrors.NewCapabilityUnavailableError("barcode", err)
	}
	return code, ok, nil
}
