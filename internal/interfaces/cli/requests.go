package cli

import (
	"time"

	appinventory "github.com/erp/stockledger/internal/application/inventory"
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyInput identifies the counter-party of a movement
type PartyInput struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=STORE CUSTOMER SUPPLIER"`
	Description string    `json:"description" validate:"max=200"`
}

func (p PartyInput) toRef() inventory.EntityRef {
	return inventory.EntityRef{
		ID:          p.ID,
		Type:        inventory.LocationType(p.Type),
		Description: p.Description,
	}
}

// LineInput is one product line; item_id and product_id are interchangeable
type LineInput struct {
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
}

func toLineItems(lines []LineInput) []appinventory.LineItemInput {
	items := make([]appinventory.LineItemInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, appinventory.LineItemInput{
			ItemID:    l.ItemID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return items
}

// IssueInput is the request document of the issue command
type IssueInput struct {
	FromLocationID uuid.UUID   `json:"from_location_id" validate:"required"`
	To             PartyInput  `json:"to"`
	Lines          []LineInput `json:"lines" validate:"required,min=1,dive"`
	DeliveryNumber string      `json:"delivery_number" validate:"max=50"`
	ExpiryDate     string      `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	ActingUserID   uuid.UUID   `json:"acting_user_id"`
}

// ToRequest converts the input into a service request
func (in IssueInput) ToRequest() (appinventory.IssueRequest, error) {
	expiry, err := inventory.ParseExpiryDate(in.ExpiryDate)
	if err != nil {
		return appinventory.IssueRequest{}, err
	}
	return appinventory.IssueRequest{
		FromLocationID: in.FromLocationID,
		To:             in.To.toRef(),
		Lines:          toLineItems(in.Lines),
		DeliveryNumber: in.DeliveryNumber,
		ExpiryDate:     expiry,
		ActingUserID:   in.ActingUserID,
	}, nil
}

// ReceiveInput is the request document of the receive and receive-record commands
type ReceiveInput struct {
	ToLocationID   uuid.UUID   `json:"to_location_id" validate:"required"`
	From           PartyInput  `json:"from"`
	Lines          []LineInput `json:"lines" validate:"required,min=1,dive"`
	DeliveryNumber string      `json:"delivery_number" validate:"max=50"`
	ExpiryDate     string      `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	BatchNumber    string      `json:"batch_number" validate:"max=50"`
	Stage          string      `json:"stage" validate:"omitempty,oneof=DRAFT PENDING COMPLETED CANCELLED"`
	Remarks        string      `json:"remarks" validate:"max=500"`
	// WithRecord also creates the receive document in the same transaction
	WithRecord   bool      `json:"with_record"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
}

// ToRequest converts the input into a service request
func (in ReceiveInput) ToRequest() (appinventory.ReceiveRequest, error) {
	expiry, err := inventory.ParseExpiryDate(in.ExpiryDate)
	if err != nil {
		return appinventory.ReceiveRequest{}, err
	}
	return appinventory.ReceiveRequest{
		ToLocationID:   in.ToLocationID,
		From:           in.From.toRef(),
		Lines:          toLineItems(in.Lines),
		DeliveryNumber: in.DeliveryNumber,
		ExpiryDate:     expiry,
		BatchNumber:    in.BatchNumber,
		ActingUserID:   in.ActingUserID,
	}, nil
}

// MovementStage returns the requested document stage, COMPLETED when unset
func (in ReceiveInput) MovementStage() (inventory.MovementStage, error) {
	if in.Stage == "" {
		return inventory.MovementStageCompleted, nil
	}
	return inventory.ParseMovementStage(in.Stage)
}

// ToRecordRequest converts the input into a receive record request
func (in ReceiveInput) ToRecordRequest() (appinventory.CreateReceiveRecordRequest, error) {
	stage, err := in.MovementStage()
	if err != nil {
		return appinventory.CreateReceiveRecordRequest{}, err
	}
	return appinventory.CreateReceiveRecordRequest{
		ToLocationID:   in.ToLocationID,
		From:           in.From.toRef(),
		Lines:          toLineItems(in.Lines),
		DeliveryNumber: in.DeliveryNumber,
		Stage:          stage,
		Remarks:        in.Remarks,
		ActingUserID:   in.ActingUserID,
	}, nil
}

// CommitInput is the request document of the commit command
type CommitInput struct {
	DocumentID   uuid.UUID `json:"document_id" validate:"required"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
}

// IssueView is the JSON result of an issue
type IssueView struct {
	DocumentID   string   `json:"document_id"`
	Reference    string   `json:"reference"`
	TotalValue   string   `json:"total_value"`
	Lines        int      `json:"lines"`
	LotOutcomes  []string `json:"lot_outcomes"`
	LotsNotFound int      `json:"lots_not_found"`
}

func newIssueView(r *appinventory.IssueResult) IssueView {
	outcomes := make([]string, 0, len(r.LotOutcomes))
	for _, o := range r.LotOutcomes {
		outcomes = append(outcomes, o.String())
	}
	return IssueView{
		DocumentID:   r.Document.ID.String(),
		Reference:    r.Document.Reference(),
		TotalValue:   r.Document.TotalValue.String(),
		Lines:        len(r.Document.Lines),
		LotOutcomes:  outcomes,
		LotsNotFound: r.LotsNotFound(),
	}
}

// ReceiveView is the JSON result of a receive
type ReceiveView struct {
	DocumentID     string   `json:"document_id,omitempty"`
	TransactionIDs []string `json:"transaction_ids"`
}

func newReceiveView(r *appinventory.ReceiveResult) ReceiveView {
	view := ReceiveView{TransactionIDs: make([]string, 0, len(r.Transactions))}
	if r.Document != nil {
		view.DocumentID = r.Document.ID.String()
	}
	for _, tx := range r.Transactions {
		view.TransactionIDs = append(view.TransactionIDs, tx.ID.String())
	}
	return view
}

// DocumentView is the JSON result of creating a receive record
type DocumentView struct {
	DocumentID string `json:"document_id"`
	Stage      string `json:"stage"`
	TotalValue string `json:"total_value"`
	Lines      int    `json:"lines"`
}

func newDocumentView(d *inventory.MovementDocument) DocumentView {
	return DocumentView{
		DocumentID: d.ID.String(),
		Stage:      d.Stage.String(),
		TotalValue: d.TotalValue.String(),
		Lines:      len(d.Lines),
	}
}

// ProductTotalView is a counted total per product
type ProductTotalView struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

// CommitView is the JSON result of a commit
type CommitView struct {
	DocumentID   string             `json:"document_id"`
	StoreID      string             `json:"store_id"`
	ClosedAt     time.Time          `json:"closed_at"`
	Adjustments  int                `json:"adjustments"`
	SkippedLines int                `json:"skipped_lines"`
	LotsCreated  int                `json:"lots_created"`
	Totals       []ProductTotalView `json:"totals"`
}

func newCommitView(r *appinventory.CommitResult) CommitView {
	totals := make([]ProductTotalView, 0, len(r.Totals))
	for _, t := range r.Totals {
		totals = append(totals, ProductTotalView{ProductID: t.ProductID.String(), Quantity: t.Quantity.String()})
	}
	return CommitView{
		DocumentID:   r.Document.ID.String(),
		StoreID:      r.Document.StoreID.String(),
		ClosedAt:     r.ClosedAt,
		Adjustments:  len(r.Adjustments),
		SkippedLines: r.SkippedLines,
		LotsCreated:  r.LotsCreated,
		Totals:       totals,
	}
}
