package persistence

import (
	"context"
	"testing"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"ascending", "DESC"},
		{"ASC; DELETE FROM ledger_transactions;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"stock level quantity", "quantity", StockLevelSortFields, "quantity"},
		{"stock level product", " product_id ", StockLevelSortFields, "product_id"},
		{"ledger date", "transaction_date", LedgerTransactionSortFields, "transaction_date"},
		{"ledger reference", "reference", LedgerTransactionSortFields, "reference"},
		{"not whitelisted for stock levels", "reference", StockLevelSortFields, "created_at"},
		{"case sensitive", "QUANTITY", StockLevelSortFields, "created_at"},
		{"empty", "", LedgerTransactionSortFields, "created_at"},
		{"injection", "quantity; DROP TABLE stock_levels;--", StockLevelSortFields, "created_at"},
		{"quoted injection", "quantity'--", StockLevelSortFields, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}

func TestApplyFilter(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormStockLevelRepository(db.DB)
	ctx := context.Background()
	storeID := uuid.New()

	for _, qty := range []int64{4, 1, 5, 2, 3} {
		require.NoError(t, repo.SetQuantity(ctx, uuid.New(), storeID, decimal.NewFromInt(qty)))
	}

	page := func(filter shared.Filter) []string {
		var rows []models.StockLevelModel
		query := applyFilter(db.DB.Model(&models.StockLevelModel{}).Where("location_id = ?", storeID),
			filter, StockLevelSortFields, "quantity")
		require.NoError(t, query.Find(&rows).Error)
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Quantity.String()
		}
		return out
	}

	assert.Equal(t, []string{"1", "2"}, page(shared.Filter{Page: 1, PageSize: 2, OrderBy: "quantity", OrderDir: "asc"}))
	assert.Equal(t, []string{"3", "4"}, page(shared.Filter{Page: 2, PageSize: 2, OrderBy: "quantity", OrderDir: "asc"}))
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, page(shared.Filter{OrderBy: "quantity; DROP TABLE stock_levels"}))

	var count int64
	require.NoError(t, db.DB.Model(&models.StockLevelModel{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}
