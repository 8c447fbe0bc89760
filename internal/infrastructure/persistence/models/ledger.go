package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevelModel is the persistence model for the StockLevel counter.
type StockLevelModel struct {
	BaseModel
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_location,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_location,priority:2;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// ToDomain converts the persistence model to a domain StockLevel entity.
func (m *StockLevelModel) ToDomain() *inventory.StockLevel {
	return &inventory.StockLevel{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		LocationID: m.LocationID,
		Quantity:   m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain StockLevel entity.
func (m *StockLevelModel) FromDomain(s *inventory.StockLevel) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ProductID = s.ProductID
	m.LocationID = s.LocationID
	m.Quantity = s.Quantity
}

// StockLevelModelFromDomain creates a new persistence model from a domain StockLevel entity.
func StockLevelModelFromDomain(s *inventory.StockLevel) *StockLevelModel {
	m := &StockLevelModel{}
	m.FromDomain(s)
	return m
}

// ExpiryLotModel is the persistence model for the ExpiryLot entity.
// Lots are not unique per key: a count may record the same expiry twice.
type ExpiryLotModel struct {
	BaseModel
	LocationID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_expiry_lot_key,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_expiry_lot_key,priority:2"`
	ExpiryDate  time.Time       `gorm:"type:date;not null;index:idx_expiry_lot_key,priority:3"`
	BatchNumber string          `gorm:"type:varchar(50);not null;default:''"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ExpiryLotModel) TableName() string {
	return "expiry_lots"
}

// ToDomain converts the persistence model to a domain ExpiryLot entity.
func (m *ExpiryLotModel) ToDomain() *inventory.ExpiryLot {
	return &inventory.ExpiryLot{
		BaseEntity:  m.BaseModel.ToDomain(),
		LocationID:  m.LocationID,
		ProductID:   m.ProductID,
		ExpiryDate:  inventory.NormalizeExpiryDate(m.ExpiryDate),
		BatchNumber: m.BatchNumber,
		Quantity:    m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain ExpiryLot entity.
func (m *ExpiryLotModel) FromDomain(l *inventory.ExpiryLot) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.LocationID = l.LocationID
	m.ProductID = l.ProductID
	m.ExpiryDate = inventory.NormalizeExpiryDate(l.ExpiryDate)
	m.BatchNumber = l.BatchNumber
	m.Quantity = l.Quantity
}

// ExpiryLotModelFromDomain creates a new persistence model from a domain ExpiryLot entity.
func ExpiryLotModelFromDomain(l *inventory.ExpiryLot) *ExpiryLotModel {
	m := &ExpiryLotModel{}
	m.FromDomain(l)
	return m
}

// LedgerTransactionModel is the persistence model for one ledger entry.
// Rows are only ever inserted.
type LedgerTransactionModel struct {
	ID                uuid.UUID                 `gorm:"type:uuid;primary_key"`
	TransactionDate   time.Time                 `gorm:"not null;index"`
	SourceCode        string                    `gorm:"type:varchar(64);not null;default:''"`
	SourceDescription string                    `gorm:"type:varchar(255);not null;default:''"`
	ProductID         uuid.UUID                 `gorm:"type:uuid;not null;index:idx_ledger_tx_product_location,priority:1"`
	LocationID        uuid.UUID                 `gorm:"type:uuid;not null;index:idx_ledger_tx_product_location,priority:2"`
	ExpiryDate        *time.Time                `gorm:"type:date"`
	Reference         string                    `gorm:"type:varchar(100);not null;default:'';index"`
	UnitPrice         decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	TransactionType   inventory.TransactionType `gorm:"type:varchar(30);not null;index"`
	Direction         inventory.Direction       `gorm:"type:varchar(10);not null"`
	Quantity          decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Description       string                    `gorm:"type:varchar(255);not null;default:''"`
	UserID            uuid.UUID                 `gorm:"type:uuid"`
	CreatedAt         time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LedgerTransactionModel) TableName() string {
	return "ledger_transactions"
}

// ToDomain converts the persistence model to a domain LedgerTransaction.
func (m *LedgerTransactionModel) ToDomain() *inventory.LedgerTransaction {
	return &inventory.LedgerTransaction{
		ID:                m.ID,
		TransactionDate:   m.TransactionDate,
		SourceCode:        m.SourceCode,
		SourceDescription: m.SourceDescription,
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		ExpiryDate:        normalizeDate(m.ExpiryDate),
		Reference:         m.Reference,
		UnitPrice:         m.UnitPrice,
		TransactionType:   m.TransactionType,
		Direction:         m.Direction,
		Quantity:          m.Quantity,
		Description:       m.Description,
		UserID:            m.UserID,
		CreatedAt:         m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain LedgerTransaction.
func (m *LedgerTransactionModel) FromDomain(t *inventory.LedgerTransaction) {
	m.ID = t.ID
	m.TransactionDate = t.TransactionDate
	m.SourceCode = t.SourceCode
	m.SourceDescription = t.SourceDescription
	m.ProductID = t.ProductID
	m.LocationID = t.LocationID
	m.ExpiryDate = normalizeDate(t.ExpiryDate)
	m.Reference = t.Reference
	m.UnitPrice = t.UnitPrice
	m.TransactionType = t.TransactionType
	m.Direction = t.Direction
	m.Quantity = t.Quantity
	m.Description = t.Description
	m.UserID = t.UserID
	m.CreatedAt = t.CreatedAt
}

// LedgerTransactionModelFromDomain creates a new persistence model from a domain LedgerTransaction.
func LedgerTransactionModelFromDomain(t *inventory.LedgerTransaction) *LedgerTransactionModel {
	m := &LedgerTransactionModel{}
	m.FromDomain(t)
	return m
}

// CostLogModel is the persistence model for the append-only cost history.
type CostLogModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	LoggedAt        time.Time       `gorm:"not null"`
	TransactionDate time.Time       `gorm:"not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UserID          uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CostLogModel) TableName() string {
	return "cost_logs"
}

// ToDomain converts the persistence model to a domain CostLogEntry.
func (m *CostLogModel) ToDomain() *inventory.CostLogEntry {
	return &inventory.CostLogEntry{
		ID:              m.ID,
		LoggedAt:        m.LoggedAt,
		TransactionDate: m.TransactionDate,
		ProductID:       m.ProductID,
		CostPrice:       m.CostPrice,
		UserID:          m.UserID,
	}
}

// CostLogModelFromDomain creates a new persistence model from a domain CostLogEntry.
func CostLogModelFromDomain(e *inventory.CostLogEntry) *CostLogModel {
	return &CostLogModel{
		ID:              e.ID,
		LoggedAt:        e.LoggedAt,
		TransactionDate: e.TransactionDate,
		ProductID:       e.ProductID,
		CostPrice:       e.CostPrice,
		UserID:          e.UserID,
	}
}

// StockBalanceSnapshotModel is the persistence model for reconciliation balance history.
type StockBalanceSnapshotModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransactionDate time.Time       `gorm:"not null;uniqueIndex:idx_snapshot_instant_store_product,priority:1"`
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_instant_store_product,priority:2;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_instant_store_product,priority:3"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockBalanceSnapshotModel) TableName() string {
	return "stock_balance_snapshots"
}

// ToDomain converts the persistence model to a domain StockBalanceSnapshot.
func (m *StockBalanceSnapshotModel) ToDomain() *inventory.StockBalanceSnapshot {
	return &inventory.StockBalanceSnapshot{
		ID:              m.ID,
		TransactionDate: inventory.SnapshotInstant(m.TransactionDate),
		StoreID:         m.StoreID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		CreatedAt:       m.CreatedAt,
	}
}

// StockBalanceSnapshotModelFromDomain creates a new persistence model from a domain StockBalanceSnapshot.
func StockBalanceSnapshotModelFromDomain(s *inventory.StockBalanceSnapshot) *StockBalanceSnapshotModel {
	return &StockBalanceSnapshotModel{
		ID:              s.ID,
		TransactionDate: inventory.SnapshotInstant(s.TransactionDate),
		StoreID:         s.StoreID,
		ProductID:       s.ProductID,
		Quantity:        s.Quantity,
		CreatedAt:       s.CreatedAt,
	}
}
