package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/dto"
	"ordertrack/internal/locale"
	"ordertrack/internal/scan"
)

type Scanner interface {
	Scan(ctx context.Context, d scan.Decoder, frame []byte) (scan.Result, bool, error)
}

var scanNotices = map[scan.Outcome]string{
	scan.Success:   locale.KeyScanSuccess,
	scan.NotFound:  locale.KeyScanNotFound,
	scan.Duplicate: locale.KeyScanDuplicate,
}

type ScanController struct {
	scanner Scanner
	decoder scan.Decoder
	logger  *zap.Logger
}

// NewScanController builds the scan endpoint. A nil decoder makes every scan
// report the barcode capability as unavailable.
func NewScanController(scanner Scanner, decoder scan.Decoder, logger *zap.Logger) *ScanController {
	return &ScanController{
		scanner: scanner,
		decoder: decoder,
		logger:  logger,
	}
}

// Scan answers 204 when the frame holds no readable code, so the client
// keeps scanning without feedback.
func (c *ScanController) Scan(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	var req dto.ScanRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	result, ok, err := c.scanner.Scan(r.Context(), c.decoder, []byte(req.Code))
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	tr := commons.Translator(r)
	resp := dto.ScanResponse{
		Outcome:   result.Outcome,
		Code:      result.Code,
		Message:   tr.Translate(scanNotices[result.Outcome]),
		Direction: "ltr",
	}
	if tr.IsRightToLeft() {
		resp.Direction = "rtl"
	}
	if result.Order != nil {
		o := dto.NewOrderResponse(*result.Order)
		resp.Order = &o
	}

	commons.WriteJSON(w, logger, http.StatusOK, resp)
}
