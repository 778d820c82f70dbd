package order

import (
	"database/sql"

	"go.uber.org/zap"

	"ordertrack/internal/config"
	"ordertrack/internal/infrastructure/mysql"
	"ordertrack/internal/order/controller"
	orderrepo "ordertrack/internal/order/repository"
	"ordertrack/internal/order/service"
	"ordertrack/internal/order/usecase"
	"ordertrack/internal/scan"
	"ordertrack/internal/session"
)

type Controllers struct {
	Orders    *controller.OrderController
	Statuses  *controller.StatusController
	Documents *controller.DocumentController
	Scan      *controller.ScanController
}

func NewModule(sess *session.Session, cfg *config.Config, logger *zap.Logger) *Controllers {
	return &Controllers{
		Orders:    controller.NewOrderController(sess, logger),
		Statuses:  controller.NewStatusController(sess, logger),
		Documents: controller.NewDocumentController(usecase.NewDocumentsUseCase(sess, logger), cfg.Server.MaxUploadBytes, logger),
		Scan:      controller.NewScanController(sess, scan.PlainDecoder{}, logger),
	}
}

func NewMirror(db *sql.DB, cfg *config.Config, logger *zap.Logger) *service.MirrorService {
	return service.NewMirrorService(
		mysql.NewTxManager(db, cfg.Backend.TxTimeout),
		orderrepo.NewMySQLOrderRepository(db),
		logger,
		cfg.Backend.FlushInterval,
		cfg.Backend.MaxRetryAttempts,
	)
}
