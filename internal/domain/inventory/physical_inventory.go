package inventory

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PhysicalInventoryStage is the lifecycle stage of a count document
type PhysicalInventoryStage string

const (
	// PhysicalInventoryStageOpen means the count is still being recorded
	PhysicalInventoryStageOpen PhysicalInventoryStage = "OPEN"
	// PhysicalInventoryStageClosed means the count has been committed to the ledger
	PhysicalInventoryStageClosed PhysicalInventoryStage = "CLOSED"
)

// String returns the string representation of PhysicalInventoryStage
func (s PhysicalInventoryStage) String() string {
	return string(s)
}

// IsValid returns true if the stage is valid
func (s PhysicalInventoryStage) IsValid() bool {
	return s == PhysicalInventoryStageOpen || s == PhysicalInventoryStageClosed
}

// PhysicalInventoryDocument is a physical count of one store.
// It is assembled by callers and consumed exactly once by reconciliation.
type PhysicalInventoryDocument struct {
	shared.BaseEntity
	StoreID        uuid.UUID
	Description    string
	Stage          PhysicalInventoryStage
	ClosedDate     *time.Time
	CalculatedDate *time.Time
	CreatedBy      uuid.UUID
	Lines          []PhysicalCountLineItem
}

// PhysicalCountLineItem is one counted product on a count document
type PhysicalCountLineItem struct {
	ID               uuid.UUID
	DocumentID       uuid.UUID
	LineNumber       int
	ProductID        uuid.UUID
	CountedQuantity  decimal.Decimal
	ExpectedQuantity decimal.Decimal
	UnitPrice        decimal.Decimal
	ExpiryDate       *time.Time
	BatchNumber      string
}

// Delta returns counted minus expected quantity
func (l *PhysicalCountLineItem) Delta() decimal.Decimal {
	return l.CountedQuantity.Sub(l.ExpectedQuantity)
}

// NewPhysicalInventoryDocument creates an open count document for a store
func NewPhysicalInventoryDocument(storeID uuid.UUID, description string, createdBy uuid.UUID) (*PhysicalInventoryDocument, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	return &PhysicalInventoryDocument{
		BaseEntity:  shared.NewBaseEntity(),
		StoreID:     storeID,
		Description: strings.TrimSpace(description),
		Stage:       PhysicalInventoryStageOpen,
		CreatedBy:   createdBy,
	}, nil
}

// AddLine appends a count line to an open document
func (d *PhysicalInventoryDocument) AddLine(productID uuid.UUID, counted, expected, unitPrice decimal.Decimal, expiry *time.Time, batch string) (*PhysicalCountLineItem, error) {
	if d.IsClosed() {
		return nil, ErrDocumentAlreadyClosed
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	var exp *time.Time
	if expiry != nil {
		e := NormalizeExpiryDate(*expiry)
		exp = &e
	}
	d.Lines = append(d.Lines, PhysicalCountLineItem{
		ID:               uuid.New(),
		DocumentID:       d.ID,
		LineNumber:       len(d.Lines) + 1,
		ProductID:        productID,
		CountedQuantity:  counted,
		ExpectedQuantity: expected,
		UnitPrice:        unitPrice,
		ExpiryDate:       exp,
		BatchNumber:      strings.TrimSpace(batch),
	})
	return &d.Lines[len(d.Lines)-1], nil
}

// IsClosed returns true once the count has been committed
func (d *PhysicalInventoryDocument) IsClosed() bool {
	return d.Stage == PhysicalInventoryStageClosed
}

// Close stamps the closed and calculated dates and moves the document to CLOSED
func (d *PhysicalInventoryDocument) Close(at time.Time) error {
	if d.IsClosed() {
		return ErrDocumentAlreadyClosed
	}
	d.ClosedDate = &at
	d.CalculatedDate = &at
	d.Stage = PhysicalInventoryStageClosed
	d.Touch(at)
	return nil
}

// ProductIDs returns the distinct products on the document in first-seen order
func (d *PhysicalInventoryDocument) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(d.Lines))
	ids := make([]uuid.UUID, 0, len(d.Lines))
	for _, l := range d.Lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// AdjustmentReference returns the ledger reference posted for this document
func (d *PhysicalInventoryDocument) AdjustmentReference() string {
	return AdjustmentReferencePrefix + d.ID.String()
}
