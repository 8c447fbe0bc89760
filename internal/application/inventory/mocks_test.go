package inventory

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ApplyCountedPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

// MockStockLevelRepository is a mock implementation of StockLevelRepository
type MockStockLevelRepository struct {
	mock.Mock
}

func (m *MockStockLevelRepository) AdjustQuantity(ctx context.Context, productID, locationID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, productID, locationID, delta)
	return args.Error(0)
}

func (m *MockStockLevelRepository) SetQuantity(ctx context.Context, productID, locationID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, productID, locationID, quantity)
	return args.Error(0)
}

func (m *MockStockLevelRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockStockLevelRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]inventory.StockLevel, error) {
	args := m.Called(ctx, locationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockLevel), args.Error(1)
}

// MockLedgerTransactionRepository is a mock implementation of LedgerTransactionRepository
type MockLedgerTransactionRepository struct {
	mock.Mock
}

func (m *MockLedgerTransactionRepository) Append(ctx context.Context, tx *inventory.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerTransactionRepository) FindByReference(ctx context.Context, reference string) ([]inventory.LedgerTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerTransactionRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID, filter shared.Filter) ([]inventory.LedgerTransaction, error) {
	args := m.Called(ctx, productID, locationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.LedgerTransaction), args.Error(1)
}

// MockExpiryLotRepository is a mock implementation of ExpiryLotRepository
type MockExpiryLotRepository struct {
	mock.Mock
}

func (m *MockExpiryLotRepository) IncreaseLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time, batch string, qty decimal.Decimal) error {
	args := m.Called(ctx, locationID, productID, expiry, batch, qty)
	return args.Error(0)
}

func (m *MockExpiryLotRepository) DecreaseLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time, qty decimal.Decimal) (inventory.LotOutcome, error) {
	args := m.Called(ctx, locationID, productID, expiry, qty)
	return args.Get(0).(inventory.LotOutcome), args.Error(1)
}

func (m *MockExpiryLotRepository) ClearLots(ctx context.Context, locationID uuid.UUID, productIDs []uuid.UUID) error {
	args := m.Called(ctx, locationID, productIDs)
	return args.Error(0)
}

func (m *MockExpiryLotRepository) Create(ctx context.Context, lot *inventory.ExpiryLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockExpiryLotRepository) FindByLocationAndProduct(ctx context.Context, locationID, productID uuid.UUID) ([]inventory.ExpiryLot, error) {
	args := m.Called(ctx, locationID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ExpiryLot), args.Error(1)
}

// MockMovementDocumentRepository is a mock implementation of MovementDocumentRepository
type MockMovementDocumentRepository struct {
	mock.Mock
}

func (m *MockMovementDocumentRepository) Create(ctx context.Context, doc *inventory.MovementDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockMovementDocumentRepository) AddLine(ctx context.Context, line *inventory.MovementLineItem) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockMovementDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.MovementDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.MovementDocument), args.Error(1)
}

// MockPhysicalInventoryRepository is a mock implementation of PhysicalInventoryRepository
type MockPhysicalInventoryRepository struct {
	mock.Mock
}

func (m *MockPhysicalInventoryRepository) Save(ctx context.Context, doc *inventory.PhysicalInventoryDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockPhysicalInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PhysicalInventoryDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.PhysicalInventoryDocument), args.Error(1)
}

func (m *MockPhysicalInventoryRepository) MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockCostLogRepository is a mock implementation of CostLogRepository
type MockCostLogRepository struct {
	mock.Mock
}

func (m *MockCostLogRepository) Append(ctx context.Context, entry *inventory.CostLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCostLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.CostLogEntry, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.CostLogEntry), args.Error(1)
}

// MockStockBalanceSnapshotRepository is a mock implementation of StockBalanceSnapshotRepository
type MockStockBalanceSnapshotRepository struct {
	mock.Mock
}

func (m *MockStockBalanceSnapshotRepository) DeleteAt(ctx context.Context, at time.Time, storeID uuid.UUID, productIDs []uuid.UUID) error {
	args := m.Called(ctx, at, storeID, productIDs)
	return args.Error(0)
}

func (m *MockStockBalanceSnapshotRepository) CreateBatch(ctx context.Context, snapshots []*inventory.StockBalanceSnapshot) error {
	args := m.Called(ctx, snapshots)
	return args.Error(0)
}

func (m *MockStockBalanceSnapshotRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.StockBalanceSnapshot, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockBalanceSnapshot), args.Error(1)
}

type mockRepos struct {
	products  *MockProductRepository
	levels    *MockStockLevelRepository
	lots      *MockExpiryLotRepository
	txs       *MockLedgerTransactionRepository
	movements *MockMovementDocumentRepository
	counts    *MockPhysicalInventoryRepository
	costLogs  *MockCostLogRepository
	snapshots *MockStockBalanceSnapshotRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		products:  new(MockProductRepository),
		levels:    new(MockStockLevelRepository),
		lots:      new(MockExpiryLotRepository),
		txs:       new(MockLedgerTransactionRepository),
		movements: new(MockMovementDocumentRepository),
		counts:    new(MockPhysicalInventoryRepository),
		costLogs:  new(MockCostLogRepository),
		snapshots: new(MockStockBalanceSnapshotRepository),
	}
}

func (r *mockRepos) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(Repositories{
		Products:          r.products,
		StockLevels:       r.levels,
		Lots:              r.lots,
		Transactions:      r.txs,
		Movements:         r.movements,
		PhysicalInventory: r.counts,
		CostLogs:          r.costLogs,
		Snapshots:         r.snapshots,
	})
}

func (r *mockRepos) assertExpectations(t mock.TestingT) {
	r.products.AssertExpectations(t)
	r.levels.AssertExpectations(t)
	r.lots.AssertExpectations(t)
	r.txs.AssertExpectations(t)
	r.movements.AssertExpectations(t)
	r.counts.AssertExpectations(t)
	r.costLogs.AssertExpectations(t)
	r.snapshots.AssertExpectations(t)
}

// fakeLocker records acquire and release calls per store
type fakeLocker struct {
	acquireErr error
	acquired   []uuid.UUID
	released   int
}

func (l *fakeLocker) Acquire(_ context.Context, storeID uuid.UUID) (func(context.Context) error, error) {
	if l.acquireErr != nil {
		return nil, l.acquireErr
	}
	l.acquired = append(l.acquired, storeID)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func decEq(v int64) interface{} {
	want := decimal.NewFromInt(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
