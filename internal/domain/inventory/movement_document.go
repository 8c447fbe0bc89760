package inventory

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind distinguishes issue documents from receive documents
type MovementKind string

const (
	// MovementKindIssue is an IV issue document
	MovementKindIssue MovementKind = "ISSUE"
	// MovementKindReceive is an IV receive document
	MovementKindReceive MovementKind = "RECEIVE"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is valid
func (k MovementKind) IsValid() bool {
	return k == MovementKindIssue || k == MovementKindReceive
}

// MovementStage is the lifecycle stage of a movement document.
// Stage transitions after creation happen outside the ledger engine.
type MovementStage string

const (
	MovementStageDraft     MovementStage = "DRAFT"
	MovementStagePending   MovementStage = "PENDING"
	MovementStageCompleted MovementStage = "COMPLETED"
	MovementStageCancelled MovementStage = "CANCELLED"
)

// String returns the string representation of MovementStage
func (s MovementStage) String() string {
	return string(s)
}

// IsValid returns true if the stage is valid
func (s MovementStage) IsValid() bool {
	switch s {
	case MovementStageDraft, MovementStagePending, MovementStageCompleted, MovementStageCancelled:
		return true
	}
	return false
}

// ParseMovementStage parses a stage name case-insensitively
func ParseMovementStage(s string) (MovementStage, error) {
	stage := MovementStage(strings.ToUpper(strings.TrimSpace(s)))
	if !stage.IsValid() {
		return "", shared.NewDomainError("INVALID_STAGE", "Invalid movement stage: "+s)
	}
	return stage, nil
}

// MovementLine is the quantity and unit price of one product on a movement
type MovementLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Amount returns quantity times unit price
func (l MovementLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// DocumentTotal returns the sum of quantity times price over lines
func DocumentTotal(lines []MovementLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

// MovementDocument is the header of an issue or receive business event.
// It is created once and owns its line items in order.
type MovementDocument struct {
	shared.BaseEntity
	Kind           MovementKind
	DocumentDate   time.Time
	DeliveryNumber string
	FromLocationID uuid.UUID
	FromType       LocationType
	ToLocationID   uuid.UUID
	ToType         LocationType
	TotalValue     decimal.Decimal
	Stage          MovementStage
	UserID         uuid.UUID
	Remarks        string
	Lines          []MovementLineItem
}

// MovementLineItem is one product line on a movement document
type MovementLineItem struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	LineNumber int
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	CreatedAt  time.Time
}

// Amount returns quantity times unit price
func (l *MovementLineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// NewIssueDocument creates a completed issue document from a store to a counter-party.
// The total is computed from lines; line items are added separately with AddLine.
func NewIssueDocument(fromLocationID uuid.UUID, to EntityRef, lines []MovementLine, deliveryNumber string, userID uuid.UUID) *MovementDocument {
	return &MovementDocument{
		BaseEntity:     shared.NewBaseEntity(),
		Kind:           MovementKindIssue,
		DocumentDate:   time.Now(),
		DeliveryNumber: deliveryNumber,
		FromLocationID: fromLocationID,
		FromType:       LocationTypeStore,
		ToLocationID:   to.ID,
		ToType:         to.Type,
		TotalValue:     DocumentTotal(lines),
		Stage:          MovementStageCompleted,
		UserID:         userID,
	}
}

// NewReceiveDocument creates a receive document into a store from a counter-party
func NewReceiveDocument(toLocationID uuid.UUID, from EntityRef, lines []MovementLine, deliveryNumber string, stage MovementStage, remarks string, userID uuid.UUID) (*MovementDocument, error) {
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Invalid movement stage")
	}
	return &MovementDocument{
		BaseEntity:     shared.NewBaseEntity(),
		Kind:           MovementKindReceive,
		DocumentDate:   time.Now(),
		DeliveryNumber: deliveryNumber,
		FromLocationID: from.ID,
		FromType:       from.Type,
		ToLocationID:   toLocationID,
		ToType:         LocationTypeStore,
		TotalValue:     DocumentTotal(lines),
		Stage:          stage,
		UserID:         userID,
		Remarks:        strings.TrimSpace(remarks),
	}, nil
}

// AddLine appends a line item and returns it; line numbers start at 1
func (d *MovementDocument) AddLine(line MovementLine) *MovementLineItem {
	item := MovementLineItem{
		ID:         uuid.New(),
		DocumentID: d.ID,
		LineNumber: len(d.Lines) + 1,
		ProductID:  line.ProductID,
		Quantity:   line.Quantity,
		UnitPrice:  line.UnitPrice,
		CreatedAt:  time.Now(),
	}
	d.Lines = append(d.Lines, item)
	return &d.Lines[len(d.Lines)-1]
}

// Reference returns the delivery number, or the document ID when none was given
func (d *MovementDocument) Reference() string {
	if d.DeliveryNumber != "" {
		return d.DeliveryNumber
	}
	return d.ID.String()
}
