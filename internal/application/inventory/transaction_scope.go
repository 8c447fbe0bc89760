package inventory

import (
	"context"

	"github.com/erp/stockledger/internal/domain/inventory"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// The movement and reconciliation services are the only writers of stock
// levels and expiry lots, and they only write through these repositories.
type TransactionalRepositories interface {
	ProductRepo() inventory.ProductRepository
	StockLevelRepo() inventory.StockLevelRepository
	LotRepo() inventory.ExpiryLotRepository
	TransactionRepo() inventory.LedgerTransactionRepository
	MovementRepo() inventory.MovementDocumentRepository
	PhysicalInventoryRepo() inventory.PhysicalInventoryRepository
	CostLogRepo() inventory.CostLogRepository
	SnapshotRepo() inventory.StockBalanceSnapshotRepository
}

// Repositories is a plain set of repositories, used to build a NoOpTransactionScope
type Repositories struct {
	Products          inventory.ProductRepository
	StockLevels       inventory.StockLevelRepository
	Lots              inventory.ExpiryLotRepository
	Transactions      inventory.LedgerTransactionRepository
	Movements         inventory.MovementDocumentRepository
	PhysicalInventory inventory.PhysicalInventoryRepository
	CostLogs          inventory.CostLogRepository
	Snapshots         inventory.StockBalanceSnapshotRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() inventory.ProductRepository {
	return s.repos.Products
}

func (s *NoOpTransactionScope) StockLevelRepo() inventory.StockLevelRepository {
	return s.repos.StockLevels
}

func (s *NoOpTransactionScope) LotRepo() inventory.ExpiryLotRepository {
	return s.repos.Lots
}

func (s *NoOpTransactionScope) TransactionRepo() inventory.LedgerTransactionRepository {
	return s.repos.Transactions
}

func (s *NoOpTransactionScope) MovementRepo() inventory.MovementDocumentRepository {
	return s.repos.Movements
}

func (s *NoOpTransactionScope) PhysicalInventoryRepo() inventory.PhysicalInventoryRepository {
	return s.repos.PhysicalInventory
}

func (s *NoOpTransactionScope) CostLogRepo() inventory.CostLogRepository {
	return s.repos.CostLogs
}

func (s *NoOpTransactionScope) SnapshotRepo() inventory.StockBalanceSnapshotRepository {
	return s.repos.Snapshots
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
