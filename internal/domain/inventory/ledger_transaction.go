package inventory

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the business event behind a ledger entry
type TransactionType string

const (
	// TransactionTypeIssue is stock leaving a location to a customer or another party
	TransactionTypeIssue TransactionType = "ISSUE"
	// TransactionTypeReceive is stock arriving at a location
	TransactionTypeReceive TransactionType = "RECEIVE"
	// TransactionTypeSystemAdjustment is a correction posted by physical reconciliation
	TransactionTypeSystemAdjustment TransactionType = "SYSTEM_ADJUSTMENT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIssue, TransactionTypeReceive, TransactionTypeSystemAdjustment:
		return true
	}
	return false
}

// Direction tells whether a ledger entry moved stock into or out of its location
type Direction string

const (
	// DirectionIn increases stock at the location
	DirectionIn Direction = "IN"
	// DirectionOut decreases stock at the location
	DirectionOut Direction = "OUT"
)

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// LedgerTransaction is an immutable audit record of one quantity movement of
// one product at one location. Entries are never updated or deleted; mistakes
// are corrected by posting further entries.
type LedgerTransaction struct {
	ID                uuid.UUID
	TransactionDate   time.Time
	SourceCode        string
	SourceDescription string
	ProductID         uuid.UUID
	LocationID        uuid.UUID
	ExpiryDate        *time.Time
	Reference         string
	UnitPrice         decimal.Decimal
	TransactionType   TransactionType
	Direction         Direction
	Quantity          decimal.Decimal // always recorded as given, direction carries the sign
	Description       string
	UserID            uuid.UUID
	CreatedAt         time.Time
}

// NewLedgerTransaction creates a new ledger entry stamped with the current time
func NewLedgerTransaction(
	txType TransactionType,
	direction Direction,
	productID uuid.UUID,
	locationID uuid.UUID,
	quantity decimal.Decimal,
	unitPrice decimal.Decimal,
	userID uuid.UUID,
) (*LedgerTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Invalid transaction direction")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	now := time.Now()
	return &LedgerTransaction{
		ID:              uuid.New(),
		TransactionDate: now,
		ProductID:       productID,
		LocationID:      locationID,
		UnitPrice:       unitPrice,
		TransactionType: txType,
		Direction:       direction,
		Quantity:        quantity,
		UserID:          userID,
		CreatedAt:       now,
	}, nil
}

// WithSource sets the source code and description of the counter-party
func (t *LedgerTransaction) WithSource(code, description string) *LedgerTransaction {
	t.SourceCode = code
	t.SourceDescription = description
	return t
}

// WithReference sets the reference (delivery number, document number)
func (t *LedgerTransaction) WithReference(reference string) *LedgerTransaction {
	t.Reference = reference
	return t
}

// WithDescription sets the free-text description
func (t *LedgerTransaction) WithDescription(description string) *LedgerTransaction {
	t.Description = description
	return t
}

// WithExpiryDate sets the expiry date of the lot the movement touched
func (t *LedgerTransaction) WithExpiryDate(expiry *time.Time) *LedgerTransaction {
	if expiry == nil {
		t.ExpiryDate = nil
		return t
	}
	d := NormalizeExpiryDate(*expiry)
	t.ExpiryDate = &d
	return t
}

// WithTransactionDate sets the transaction date
func (t *LedgerTransaction) WithTransactionDate(date time.Time) *LedgerTransaction {
	t.TransactionDate = date
	return t
}

// QtyIn returns the quantity moved into the location, zero for outbound entries
func (t *LedgerTransaction) QtyIn() decimal.Decimal {
	if t.Direction == DirectionIn {
		return t.Quantity
	}
	return decimal.Zero
}

// QtyOut returns the quantity moved out of the location, zero for inbound entries
func (t *LedgerTransaction) QtyOut() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Quantity
	}
	return decimal.Zero
}

// SignedQuantity returns the quantity positive for inbound and negative for outbound
func (t *LedgerTransaction) SignedQuantity() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// Value returns quantity times unit price
func (t *LedgerTransaction) Value() decimal.Decimal {
	return t.Quantity.Mul(t.UnitPrice)
}
