package usecase

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordertrack/internal/domain"
	"ordertrack/internal/export"
	"ordertrack/internal/importer"
	"ordertrack/internal/session"
)

type Session interface {
	Do(ctx context.Context, fn func(c *session.Components) error) error
}

// DocumentsUseCase parses and renders spreadsheets off the session loop and
// touches the store only for the snapshot or the bulk append.
type DocumentsUseCase struct {
	session Session
	now     func() time.Time
	logger  *zap.Logger
}

func NewDocumentsUseCase(s Session, logger *zap.Logger) *DocumentsUseCase {
	return &DocumentsUseCase{
		session: s,
		now:     time.Now,
		logger:  logger,
	}
}

// ImportOrders appends every row of the workbook, or none of them when any
// row is invalid.
func (uc *DocumentsUseCase) ImportOrders(ctx context.Context, r io.Reader) ([]domain.Order, error) {
	inputs, err := importer.Parse(r)
	if err != nil {
		uc.logger.Warn("import parse failed", zap.Error(err))
		return nil, err
	}

	var created []domain.Order
	err = uc.session.Do(ctx, func(sc *session.Components) error {
		var err error
		created, err = sc.Store.Append(inputs)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("orders imported", zap.Int("count", len(created)))
	return created, nil
}

func (uc *DocumentsUseCase) ExportOrders(ctx context.Context) ([]byte, time.Time, error) {
	orders, commission, err := uc.snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	at := uc.now()
	data, err := export.RenderOrders(orders, commission)
	if err != nil {
		return nil, time.Time{}, err
	}
	uc.logger.Info("orders exported", zap.Int("count", len(orders)))
	return data, at, nil
}

func (uc *DocumentsUseCase) Invoice(ctx context.Context) ([]byte, time.Time, error) {
	orders, commission, err := uc.snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	issuedAt := uc.now()
	data, err := export.RenderInvoice(orders, commission, issuedAt)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, issuedAt, nil
}

func (uc *DocumentsUseCase) snapshot(ctx context.Context) ([]domain.Order, decimal.Decimal, error) {
	var (
		orders     []domain.Order
		commission decimal.Decimal
	)
	err := uc.session.Do(ctx, func(sc *session.Components) error {
		orders = sc.Store.List(domain.PartitionAll)
		commission = sc.Commission
		return nil
	})
	return orders, commission, err
}
