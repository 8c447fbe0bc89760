package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLevelRepository_AdjustQuantityUpsertSQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "stock_levels" .* ON CONFLICT \("product_id","location_id"\) DO UPDATE SET "quantity"=stock_levels\.quantity \+ excluded\.quantity,"updated_at"=excluded\.updated_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewGormStockLevelRepository(db.DB)
	err := repo.AdjustQuantity(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(-5))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLevelRepository_SetQuantityUpsertSQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "stock_levels" .* ON CONFLICT \("product_id","location_id"\) DO UPDATE SET "quantity"="excluded"\."quantity","updated_at"="excluded"\."updated_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewGormStockLevelRepository(db.DB)
	err := repo.SetQuantity(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(30))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLevelRepository_AdjustAndSet(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormStockLevelRepository(db.DB)
	ctx := context.Background()
	productID, storeID := uuid.New(), uuid.New()

	_, err := repo.FindByProductAndLocation(ctx, productID, storeID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.AdjustQuantity(ctx, productID, storeID, decimal.NewFromInt(50)))
	require.NoError(t, repo.AdjustQuantity(ctx, productID, storeID, decimal.NewFromInt(-20)))

	level, err := repo.FindByProductAndLocation(ctx, productID, storeID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(level.Quantity), "got %s", level.Quantity)

	// Issuing more than is on hand goes negative.
	require.NoError(t, repo.AdjustQuantity(ctx, productID, storeID, decimal.NewFromInt(-45)))
	level, err = repo.FindByProductAndLocation(ctx, productID, storeID)
	require.NoError(t, err)
	assert.True(t, level.IsNegative())

	require.NoError(t, repo.SetQuantity(ctx, productID, storeID, decimal.NewFromInt(12)))
	level, err = repo.FindByProductAndLocation(ctx, productID, storeID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(level.Quantity))
}

func TestStockLevelRepository_FindByLocation(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormStockLevelRepository(db.DB)
	ctx := context.Background()
	storeID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SetQuantity(ctx, uuid.New(), storeID, decimal.NewFromInt(int64(i+1))))
	}
	require.NoError(t, repo.SetQuantity(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(9)))

	levels, err := repo.FindByLocation(ctx, storeID, shared.Filter{OrderBy: "quantity", OrderDir: "desc", PageSize: 2})
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.True(t, decimal.NewFromInt(3).Equal(levels[0].Quantity))
	assert.True(t, decimal.NewFromInt(2).Equal(levels[1].Quantity))
}
