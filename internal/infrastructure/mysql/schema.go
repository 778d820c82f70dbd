package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []struct {
	name  string
	query string
}{
	{
		name: "Orders",
		query: `
	CREATE TABLE IF NOT EXISTS Orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		position INT NOT NULL DEFAULT 0,
		code VARCHAR(100) NOT NULL,
		client VARCHAR(255) NOT NULL,
		phone VARCHAR(50) NOT NULL DEFAULT '',
		price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		status VARCHAR(30) NOT NULL DEFAULT 'New',
		comment TEXT NOT NULL,
		isScanned TINYINT(1) NOT NULL DEFAULT 0,
		createdAt DATETIME(3) NOT NULL,
		updatedAt DATETIME(3) NOT NULL,
		INDEX idx_position (position),
		INDEX idx_code (code)
	)`,
	},
	{
		name: "Settings",
		query: `
	CREATE TABLE IF NOT EXISTS Settings (
		name VARCHAR(100) NOT NULL PRIMARY KEY,
		value VARCHAR(255) NOT NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	},
}

// EnsureSchema creates the mirror tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, tbl := range schema {
		if _, err := db.ExecContext(ctx, tbl.query); err != nil {
			return fmt.Errorf("creating table %s: %w", tbl.name, err)
		}
	}
	return nil
}
