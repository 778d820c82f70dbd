package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ordertrack/internal/domain"
	"ordertrack/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, code, client, phone, price, status, comment, isScanned, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string
	err := row.Scan(
		&order.ID, &order.Code, &order.Client, &order.Phone, &order.Price,
		&status, &order.Comment, &order.IsScanned, &order.CreatedAt, &order.UpdatedAt,
	)
	order.Status = domain.Status(status)
	return order, err
}

// List returns every mirrored order in grid sequence.
func (r *MySQLOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders ORDER BY position ASC, createdAt ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) Upsert(ctx context.Context, tx *sql.Tx, order domain.Order, position int) error {
	query := `
		INSERT INTO Orders (id, position, code, client, phone, price, status, comment, isScanned, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			position = VALUES(position),
			code = VALUES(code),
			client = VALUES(client),
			phone = VALUES(phone),
			price = VALUES(price),
			status = VALUES(status),
			comment = VALUES(comment),
			isScanned = VALUES(isScanned),
			updatedAt = VALUES(updatedAt)
	`

	_, err := tx.ExecContext(ctx, query,
		order.ID, position, order.Code, order.Client, order.Phone, order.Price,
		string(order.Status), order.Comment, order.IsScanned, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting order: %w", err)
	}

	return nil
}

// UpdatePositions rewrites the sequence so ids[i] sits at position i.
func (r *MySQLOrderRepository) UpdatePositions(ctx context.Context, tx *sql.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(ids)*3)
	sb.WriteString(`UPDATE Orders SET position = CASE id`)
	for i, id := range ids {
		sb.WriteString(` WHEN ? THEN ?`)
		args = append(args, id, i)
	}
	sb.WriteString(` ELSE position END WHERE id IN (?` + strings.Repeat(`, ?`, len(ids)-1) + `)`)
	for _, id := range ids {
		args = append(args, id)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("updating order positions: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM Orders`); err != nil {
		return fmt.Errorf("deleting orders: %w", err)
	}
	return nil
}
