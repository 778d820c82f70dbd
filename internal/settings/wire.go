package settings

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordertrack/internal/settings/repository"
)

// NewModule returns a service backed by MySQL, or a session-only one when db
// is nil.
func NewModule(db *sql.DB, fallback decimal.Decimal, logger *zap.Logger) *Service {
	if db == nil {
		return NewService(nil, fallback, logger)
	}
	return NewService(repository.NewMySQLSettingsRepository(db), fallback, logger)
}
