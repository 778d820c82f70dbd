package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"ordertrack/internal/errors"
)

const commissionKey = "commission"

type MySQLSettingsRepository struct {
	db *sql.DB
}

func NewMySQLSettingsRepository(db *sql.DB) *MySQLSettingsRepository {
	return &MySQLSettingsRepository{db: db}
}

func (r *MySQLSettingsRepository) FindCommission(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT value
		FROM Settings
		WHERE name = ?
	`

	var raw string
	err := r.db.QueryRowContext(ctx, query, commissionKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, errors.NewNotFoundError("commission setting not found")
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("querying commission setting: %w", err)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing commission setting %q: %w", raw, err)
	}
	return value, nil
}

func (r *MySQLSettingsRepository) SaveCommission(ctx context.Context, value decimal.Decimal) error {
	query := `
		INSERT INTO Settings (name, value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)
	`

	if _, err := r.db.ExecContext(ctx, query, commissionKey, value.String()); err != nil {
		return fmt.Errorf("saving commission setting: %w", err)
	}
	return nil
}
