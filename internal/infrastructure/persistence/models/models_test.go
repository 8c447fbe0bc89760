package models

import (
	"testing"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "products", ProductModel{}.TableName())
	assert.Equal(t, "locations", LocationModel{}.TableName())
	assert.Equal(t, "stock_levels", StockLevelModel{}.TableName())
	assert.Equal(t, "expiry_lots", ExpiryLotModel{}.TableName())
	assert.Equal(t, "ledger_transactions", LedgerTransactionModel{}.TableName())
	assert.Equal(t, "movement_documents", MovementDocumentModel{}.TableName())
	assert.Equal(t, "movement_lines", MovementLineModel{}.TableName())
	assert.Equal(t, "physical_inventories", PhysicalInventoryModel{}.TableName())
	assert.Equal(t, "physical_count_lines", PhysicalCountLineModel{}.TableName())
	assert.Equal(t, "cost_logs", CostLogModel{}.TableName())
	assert.Equal(t, "stock_balance_snapshots", StockBalanceSnapshotModel{}.TableName())
}

func TestProductModel_FromDomain(t *testing.T) {
	p, err := inventory.NewProduct("P-1", "Paracetamol", decimal.NewFromFloat(10))
	require.NoError(t, err)
	p.ApplyCountedPrice(decimal.NewFromFloat(9.5))

	m := ProductModelFromDomain(p)
	back := m.ToDomain()

	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, "P-1", back.Code)
	assert.True(t, back.CostPrice.Equal(decimal.NewFromFloat(9.5)))
	assert.True(t, back.PrevCost.Equal(decimal.NewFromFloat(10)))
	assert.True(t, back.AverageCost.Equal(decimal.NewFromFloat(9.5)))
}

func TestLedgerTransactionModel_NormalizesExpiry(t *testing.T) {
	tx, err := inventory.NewLedgerTransaction(inventory.TransactionTypeReceive, inventory.DirectionIn,
		uuid.New(), uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(2), uuid.New())
	require.NoError(t, err)
	local := time.Date(2025, 12, 31, 18, 30, 0, 0, time.FixedZone("X", 3600))
	tx.WithExpiryDate(&local).WithReference("DN-1")

	m := LedgerTransactionModelFromDomain(tx)
	require.NotNil(t, m.ExpiryDate)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), *m.ExpiryDate)

	back := m.ToDomain()
	assert.Equal(t, tx.ID, back.ID)
	assert.Equal(t, "DN-1", back.Reference)
	assert.Equal(t, inventory.DirectionIn, back.Direction)
}

func TestPhysicalInventoryModel_Lines(t *testing.T) {
	doc, err := inventory.NewPhysicalInventoryDocument(uuid.New(), "Year end", uuid.New())
	require.NoError(t, err)
	exp := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err = doc.AddLine(uuid.New(), decimal.NewFromInt(3), decimal.NewFromInt(4), decimal.NewFromInt(1), &exp, "B1")
	require.NoError(t, err)
	_, err = doc.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1), nil, "")
	require.NoError(t, err)

	m := PhysicalInventoryModelFromDomain(doc)
	require.Len(t, m.Lines, 2)
	assert.Equal(t, doc.ID, m.Lines[0].DocumentID)

	back := m.ToDomain()
	require.Len(t, back.Lines, 2)
	assert.Equal(t, 1, back.Lines[0].LineNumber)
	assert.Equal(t, exp, *back.Lines[0].ExpiryDate)
	assert.Nil(t, back.Lines[1].ExpiryDate)
	assert.Equal(t, inventory.PhysicalInventoryStageOpen, back.Stage)
}

func TestMovementDocumentModel_HeaderOnly(t *testing.T) {
	doc := inventory.NewIssueDocument(uuid.New(), inventory.EntityRef{ID: uuid.New(), Type: inventory.LocationTypeCustomer},
		[]inventory.MovementLine{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(3)}},
		"DN-7", uuid.New())
	doc.AddLine(inventory.MovementLine{ProductID: uuid.New(), Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(3)})

	m := MovementDocumentModelFromDomain(doc)
	assert.Empty(t, m.Lines)
	assert.True(t, m.TotalValue.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, inventory.MovementStageCompleted, m.Stage)
}

func TestSnapshotModel_TruncatesInstant(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 999, time.UTC)
	s := inventory.NewStockBalanceSnapshot(at, uuid.New(), uuid.New(), decimal.NewFromInt(7))
	m := StockBalanceSnapshotModelFromDomain(s)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), m.TransactionDate)
}
