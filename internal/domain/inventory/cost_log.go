package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostLogEntry is an append-only record of a product cost change
type CostLogEntry struct {
	ID              uuid.UUID
	LoggedAt        time.Time
	TransactionDate time.Time
	ProductID       uuid.UUID
	CostPrice       decimal.Decimal
	UserID          uuid.UUID
}

// NewCostLogEntry creates a cost log entry for a product at the given transaction date
func NewCostLogEntry(productID uuid.UUID, costPrice decimal.Decimal, transactionDate time.Time, userID uuid.UUID) *CostLogEntry {
	return &CostLogEntry{
		ID:              uuid.New(),
		LoggedAt:        time.Now(),
		TransactionDate: transactionDate,
		ProductID:       productID,
		CostPrice:       costPrice,
		UserID:          userID,
	}
}

// StockBalanceSnapshot is the historical quantity of a product at a store
// at one reconciliation instant. At most one row exists per
// (transaction date, store, product).
type StockBalanceSnapshot struct {
	ID              uuid.UUID
	TransactionDate time.Time
	StoreID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        decimal.Decimal
	CreatedAt       time.Time
}

// NewStockBalanceSnapshot creates a snapshot row
func NewStockBalanceSnapshot(at time.Time, storeID, productID uuid.UUID, quantity decimal.Decimal) *StockBalanceSnapshot {
	return &StockBalanceSnapshot{
		ID:              uuid.New(),
		TransactionDate: SnapshotInstant(at),
		StoreID:         storeID,
		ProductID:       productID,
		Quantity:        quantity,
		CreatedAt:       time.Now(),
	}
}

// SnapshotInstant truncates t to whole seconds in UTC, the resolution at
// which snapshots taken at effectively the same instant replace each other.
func SnapshotInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
