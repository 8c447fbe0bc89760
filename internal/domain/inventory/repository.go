package inventory

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// ApplyCountedPrice shifts cost_price into prev_cost and sets cost_price and
	// average_cost to price in one statement. Returns ErrProductNotFound when
	// no row was updated.
	ApplyCountedPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	Save(ctx context.Context, location *Location) error
}

// StockLevelRepository is the stock counter half of the ledger store.
// Implementations must apply changes atomically at the storage level.
type StockLevelRepository interface {
	// AdjustQuantity adds delta (which may be negative) to the stored quantity,
	// creating the row from a zero base if absent. No sign check is performed.
	AdjustQuantity(ctx context.Context, productID, locationID uuid.UUID, delta decimal.Decimal) error

	// SetQuantity overwrites the stored quantity, creating the row if absent
	SetQuantity(ctx context.Context, productID, locationID uuid.UUID, quantity decimal.Decimal) error

	// FindByProductAndLocation returns shared.ErrNotFound if no movement has touched the pair
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*StockLevel, error)

	// FindByLocation lists all stock levels held at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockLevel, error)
}

// LedgerTransactionRepository is the append-only movement log.
// There is deliberately no update or delete.
type LedgerTransactionRepository interface {
	Append(ctx context.Context, tx *LedgerTransaction) error
	FindByReference(ctx context.Context, reference string) ([]LedgerTransaction, error)
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID, filter shared.Filter) ([]LedgerTransaction, error)
}

// ExpiryLotRepository tracks quantities by (location, product, expiry date)
type ExpiryLotRepository interface {
	// IncreaseLot creates the matching lot or adds qty to it
	IncreaseLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time, batch string, qty decimal.Decimal) error

	// DecreaseLot subtracts qty from the matching lot and removes it once it is
	// at or below zero. A missing lot is reported as LotNotFound, not an error.
	DecreaseLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time, qty decimal.Decimal) (LotOutcome, error)

	// ClearLots removes every lot of the given products at the location
	ClearLots(ctx context.Context, locationID uuid.UUID, productIDs []uuid.UUID) error

	// Create inserts a lot as-is
	Create(ctx context.Context, lot *ExpiryLot) error

	FindByLocationAndProduct(ctx context.Context, locationID, productID uuid.UUID) ([]ExpiryLot, error)
}

// MovementDocumentRepository persists issue and receive documents
type MovementDocumentRepository interface {
	// Create inserts the document header only
	Create(ctx context.Context, doc *MovementDocument) error

	// AddLine inserts one line item of an existing document
	AddLine(ctx context.Context, line *MovementLineItem) error

	// FindByID loads a document with its lines ordered by line number
	FindByID(ctx context.Context, id uuid.UUID) (*MovementDocument, error)
}

// PhysicalInventoryRepository persists count documents
type PhysicalInventoryRepository interface {
	// Save creates or updates the document and its lines
	Save(ctx context.Context, doc *PhysicalInventoryDocument) error

	// FindByID loads a document with its lines ordered by line number.
	// Returns ErrDocumentNotFound if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*PhysicalInventoryDocument, error)

	// MarkClosed stamps closed_date and calculated_date and sets the stage to
	// CLOSED, only if the document is not closed yet. Returns
	// ErrDocumentAlreadyClosed when it was.
	MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CostLogRepository is the append-only product cost history
type CostLogRepository interface {
	Append(ctx context.Context, entry *CostLogEntry) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]CostLogEntry, error)
}

// StockBalanceSnapshotRepository persists reconciliation balance history
type StockBalanceSnapshotRepository interface {
	// DeleteAt removes snapshots at the instant for the store and products
	DeleteAt(ctx context.Context, at time.Time, storeID uuid.UUID, productIDs []uuid.UUID) error

	// CreateBatch inserts snapshot rows
	CreateBatch(ctx context.Context, snapshots []*StockBalanceSnapshot) error

	FindByStore(ctx context.Context, storeID uuid.UUID) ([]StockBalanceSnapshot, error)
}
