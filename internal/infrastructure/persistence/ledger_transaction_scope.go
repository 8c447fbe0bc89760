package persistence

import (
	"context"

	appinv "github.com/erp/stockledger/internal/application/inventory"
	"github.com/erp/stockledger/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to fn shares one database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
// If fn succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ProductRepo() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockLevelRepo() inventory.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

func (r *gormTransactionalRepositories) LotRepo() inventory.ExpiryLotRepository {
	return NewGormExpiryLotRepository(r.tx)
}

func (r *gormTransactionalRepositories) TransactionRepo() inventory.LedgerTransactionRepository {
	return NewGormLedgerTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementDocumentRepository {
	return NewGormMovementDocumentRepository(r.tx)
}

func (r *gormTransactionalRepositories) PhysicalInventoryRepo() inventory.PhysicalInventoryRepository {
	return NewGormPhysicalInventoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) CostLogRepo() inventory.CostLogRepository {
	return NewGormCostLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) SnapshotRepo() inventory.StockBalanceSnapshotRepository {
	return NewGormStockBalanceSnapshotRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
