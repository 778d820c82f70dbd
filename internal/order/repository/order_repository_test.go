package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordertrack/internal/domain"
	"ordertrack/internal/errors"
	"ordertrack/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func sampleOrder(id, code string) domain.Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Order{
		ID:        id,
		Code:      code,
		Client:    "Amina",
		Phone:     "0555 12 34 56",
		Price:     decimal.RequireFromString("180.50"),
		Status:    domain.StatusConfirmed,
		Comment:   "2. ring twice",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}

func TestOrderRepository_UpsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()
	order := sampleOrder("0b6c1f6e-0000-4000-8000-000000000001", "PK-1")

	inTx(t, db, func(tx *sql.Tx) error { return repo.Upsert(ctx, tx, order, 0) })

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Code, found.Code)
	assert.Equal(t, order.Client, found.Client)
	assert.Equal(t, order.Phone, found.Phone)
	assert.True(t, order.Price.Equal(found.Price))
	assert.Equal(t, domain.StatusConfirmed, found.Status)
	assert.Equal(t, "2. ring twice", found.Comment)
	assert.False(t, found.IsScanned)

	order.Comment = ""
	order.IsScanned = true
	order.Status = domain.StatusDelivered
	inTx(t, db, func(tx *sql.Tx) error { return repo.Upsert(ctx, tx, order, 0) })

	found, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "", found.Comment)
	assert.True(t, found.IsScanned)
	assert.Equal(t, domain.StatusDelivered, found.Status)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), "missing")
	assert.Error(t, err)
	assert.Nil(t, order)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestOrderRepository_ListFollowsPositions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()
	a := sampleOrder("0b6c1f6e-0000-4000-8000-00000000000a", "A")
	b := sampleOrder("0b6c1f6e-0000-4000-8000-00000000000b", "B")
	c := sampleOrder("0b6c1f6e-0000-4000-8000-00000000000c", "C")

	inTx(t, db, func(tx *sql.Tx) error {
		for i, o := range []domain.Order{a, b, c} {
			if err := repo.Upsert(ctx, tx, o, i); err != nil {
				return err
			}
		}
		return nil
	})
	inTx(t, db, func(tx *sql.Tx) error { return repo.UpdatePositions(ctx, tx, []string{c.ID, a.ID, b.ID}) })

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "C", orders[0].Code)
	assert.Equal(t, "A", orders[1].Code)
	assert.Equal(t, "B", orders[2].Code)
}

func TestOrderRepository_DeleteAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	inTx(t, db, func(tx *sql.Tx) error {
		return repo.Upsert(ctx, tx, sampleOrder("0b6c1f6e-0000-4000-8000-0000000000ff", "X"), 0)
	})
	inTx(t, db, func(tx *sql.Tx) error { return repo.DeleteAll(ctx, tx) })

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_UpdatePositionsEmpty(t *testing.T) {
	repo := NewMySQLOrderRepository(&sql.DB{})
	assert.NoError(t, repo.UpdatePositions(context.Background(), nil, nil))
}
