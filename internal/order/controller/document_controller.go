package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"ordertrack/internal/commons"
	"ordertrack/internal/domain"
	"ordertrack/internal/dto"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/export"
	"ordertrack/internal/locale"
)

type DocumentsUseCase interface {
	ImportOrders(ctx context.Context, r io.Reader) ([]domain.Order, error)
	ExportOrders(ctx context.Context) ([]byte, time.Time, error)
	Invoice(ctx context.Context) ([]byte, time.Time, error)
}

type DocumentController struct {
	useCase        DocumentsUseCase
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewDocumentController(useCase DocumentsUseCase, maxUploadBytes int64, logger *zap.Logger) *DocumentController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &DocumentController{
		useCase:        useCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Import accepts either a multipart upload in the "file" field or the raw
// workbook as the request body.
func (c *DocumentController) Import(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)

	data, err := c.readUpload(r)
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	created, err := c.useCase.ImportOrders(r.Context(), bytes.NewReader(data))
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusCreated, dto.ImportResponse{
		Imported: len(created),
		Orders:   dto.NewOrderResponses(created),
		Notice:   commons.Translator(r).Translate(locale.KeyImportDone),
	})
}

func (c *DocumentController) Export(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	data, at, err := c.useCase.ExportOrders(r.Context())
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	c.writeFile(w, logger, fmt.Sprintf("orders-%s.xlsx", at.Format("20060102-150405")), data)
}

func (c *DocumentController) Invoice(w http.ResponseWriter, r *http.Request) {
	logger, traceID := commons.RequestLogger(c.logger)

	data, issuedAt, err := c.useCase.Invoice(r.Context())
	if err != nil {
		commons.WriteError(w, r, logger, traceID, err)
		return
	}

	c.writeFile(w, logger, fmt.Sprintf("invoice-%s.xlsx", issuedAt.Format("20060102")), data)
}

func (c *DocumentController) readUpload(r *http.Request) ([]byte, error) {
	var src io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, apperrors.NewValidationError("missing upload", apperrors.ValidationDetail{
				Field:   "file",
				Message: "a spreadsheet must be uploaded in the file field",
			})
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.NewValidationError("upload too large or unreadable", apperrors.ValidationDetail{
			Field:   "file",
			Message: fmt.Sprintf("upload must be at most %d bytes", c.maxUploadBytes),
		})
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("empty upload", apperrors.ValidationDetail{
			Field:   "file",
			Message: "the uploaded file is empty",
		})
	}
	return data, nil
}

func (c *DocumentController) writeFile(w http.ResponseWriter, logger *zap.Logger, name string, data []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("failed to write document", zap.Error(err))
	}
}
