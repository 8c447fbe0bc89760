package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentDescription is the free-text description of reconciliation entries
const AdjustmentDescription = "Physical inventory adjustment"

// ProductTotal is the counted quantity of a product summed over count lines
type ProductTotal struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// CostChange is a counted price to apply to a product, in line order
type CostChange struct {
	ProductID uuid.UUID
	Price     decimal.Decimal
}

// ReconciliationPlan holds every write a commit of a count document performs
// against the ledger, derived purely from the document.
type ReconciliationPlan struct {
	DocumentID  uuid.UUID
	StoreID     uuid.UUID
	At          time.Time
	ProductIDs  []uuid.UUID
	Totals      []ProductTotal
	Lots        []*ExpiryLot
	Adjustments []*LedgerTransaction
	CostChanges []CostChange
	CostLogs    []*CostLogEntry
	Snapshots   []*StockBalanceSnapshot
}

// PlanReconciliation derives the reconciliation writes for a count document.
//
// Counted quantities are summed per product. Lines with an expiry date and a
// positive count produce a fresh lot. Lines whose counted quantity differs
// from the expected quantity produce one SYSTEM_ADJUSTMENT entry for the
// absolute delta, a cost change to the line price and a cost log entry.
// Lines are processed in document order; the result does not depend on it
// except for the order of cost changes on the same product.
func PlanReconciliation(doc *PhysicalInventoryDocument, at time.Time, userID uuid.UUID) (*ReconciliationPlan, error) {
	plan := &ReconciliationPlan{
		DocumentID: doc.ID,
		StoreID:    doc.StoreID,
		At:         at,
		ProductIDs: doc.ProductIDs(),
	}

	totals := make(map[uuid.UUID]decimal.Decimal, len(plan.ProductIDs))
	reference := doc.AdjustmentReference()

	for i := range doc.Lines {
		line := &doc.Lines[i]

		totals[line.ProductID] = totals[line.ProductID].Add(line.CountedQuantity)

		if line.ExpiryDate != nil && line.CountedQuantity.IsPositive() {
			plan.Lots = append(plan.Lots, NewExpiryLot(doc.StoreID, line.ProductID, *line.ExpiryDate, line.BatchNumber, line.CountedQuantity))
		}

		delta := line.Delta()
		if delta.IsZero() {
			continue
		}

		direction := DirectionIn
		if delta.IsNegative() {
			direction = DirectionOut
		}
		tx, err := NewLedgerTransaction(TransactionTypeSystemAdjustment, direction, line.ProductID, doc.StoreID, delta.Abs(), line.UnitPrice, userID)
		if err != nil {
			return nil, err
		}
		tx.WithTransactionDate(at).
			WithSource(doc.StoreID.String(), doc.Description).
			WithReference(reference).
			WithDescription(AdjustmentDescription).
			WithExpiryDate(line.ExpiryDate)
		plan.Adjustments = append(plan.Adjustments, tx)

		plan.CostChanges = append(plan.CostChanges, CostChange{ProductID: line.ProductID, Price: line.UnitPrice})
		plan.CostLogs = append(plan.CostLogs, NewCostLogEntry(line.ProductID, line.UnitPrice, at, userID))
	}

	for _, productID := range plan.ProductIDs {
		qty := totals[productID]
		plan.Totals = append(plan.Totals, ProductTotal{ProductID: productID, Quantity: qty})
		plan.Snapshots = append(plan.Snapshots, NewStockBalanceSnapshot(at, doc.StoreID, productID, qty))
	}

	return plan, nil
}
