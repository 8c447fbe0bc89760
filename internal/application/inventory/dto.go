package inventory

import (
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput is one product line supplied by a caller.
// Either ItemID or ProductID identifies the product; ProductID wins when both are set.
type LineItemInput struct {
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ResolveProductID normalizes the item_id / product_id key to a product reference
func (l LineItemInput) ResolveProductID() (uuid.UUID, error) {
	if l.ProductID != nil && *l.ProductID != uuid.Nil {
		return *l.ProductID, nil
	}
	if l.ItemID != nil && *l.ItemID != uuid.Nil {
		return *l.ItemID, nil
	}
	return uuid.Nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item requires item_id or product_id")
}

// toMovementLines resolves every input line, failing on the first line without a product
func toMovementLines(items []LineItemInput) ([]inventory.MovementLine, error) {
	lines := make([]inventory.MovementLine, 0, len(items))
	for i, item := range items {
		productID, err := item.ResolveProductID()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, inventory.MovementLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	return lines, nil
}

// IssueRequest moves stock out of a store to a counter-party
type IssueRequest struct {
	FromLocationID uuid.UUID
	To             inventory.EntityRef
	Lines          []LineItemInput
	DeliveryNumber string
	ExpiryDate     *time.Time
	ActingUserID   uuid.UUID
}

// ReceiveRequest moves stock into a store from a counter-party
type ReceiveRequest struct {
	ToLocationID   uuid.UUID
	From           inventory.EntityRef
	Lines          []LineItemInput
	DeliveryNumber string
	ExpiryDate     *time.Time
	BatchNumber    string
	ActingUserID   uuid.UUID
}

// CreateReceiveRecordRequest creates the receive document for a delivery
type CreateReceiveRecordRequest struct {
	ToLocationID   uuid.UUID
	From           inventory.EntityRef
	Lines          []LineItemInput
	DeliveryNumber string
	Stage          inventory.MovementStage
	Remarks        string
	ActingUserID   uuid.UUID
}

// IssueResult is the outcome of an issue
type IssueResult struct {
	Document     *inventory.MovementDocument
	Transactions []*inventory.LedgerTransaction
	// LotOutcomes holds one outcome per line, LotSkipped when no expiry date was given
	LotOutcomes []inventory.LotOutcome
}

// LotsNotFound counts lines whose expiry lot did not exist
func (r *IssueResult) LotsNotFound() int {
	n := 0
	for _, o := range r.LotOutcomes {
		if o == inventory.LotNotFound {
			n++
		}
	}
	return n
}

// ReceiveResult is the outcome of a receive
type ReceiveResult struct {
	Transactions []*inventory.LedgerTransaction
	// Document is only set by ReceiveWithRecord
	Document *inventory.MovementDocument
}

// CommitResult is the outcome of reconciling a count document
type CommitResult struct {
	Document     *inventory.PhysicalInventoryDocument
	ClosedAt     time.Time
	Totals       []inventory.ProductTotal
	Adjustments  []*inventory.LedgerTransaction
	LotsCreated  int
	SkippedLines int
}
