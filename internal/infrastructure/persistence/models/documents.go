package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDocumentModel is the persistence model for issue and receive document headers.
type MovementDocumentModel struct {
	BaseModel
	Kind           inventory.MovementKind  `gorm:"type:varchar(20);not null;index"`
	DocumentDate   time.Time               `gorm:"not null"`
	DeliveryNumber string                  `gorm:"type:varchar(100);not null;default:'';index"`
	FromLocationID uuid.UUID               `gorm:"type:uuid;not null;index"`
	FromType       inventory.LocationType  `gorm:"type:varchar(20);not null"`
	ToLocationID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	ToType         inventory.LocationType  `gorm:"type:varchar(20);not null"`
	TotalValue     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Stage          inventory.MovementStage `gorm:"type:varchar(20);not null"`
	UserID         uuid.UUID               `gorm:"type:uuid"`
	Remarks        string                  `gorm:"type:text"`
	// Associations
	Lines []MovementLineModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (MovementDocumentModel) TableName() string {
	return "movement_documents"
}

// ToDomain converts the persistence model to a domain MovementDocument.
func (m *MovementDocumentModel) ToDomain() *inventory.MovementDocument {
	doc := &inventory.MovementDocument{
		BaseEntity:     m.BaseModel.ToDomain(),
		Kind:           m.Kind,
		DocumentDate:   m.DocumentDate,
		DeliveryNumber: m.DeliveryNumber,
		FromLocationID: m.FromLocationID,
		FromType:       m.FromType,
		ToLocationID:   m.ToLocationID,
		ToType:         m.ToType,
		TotalValue:     m.TotalValue,
		Stage:          m.Stage,
		UserID:         m.UserID,
		Remarks:        m.Remarks,
		Lines:          make([]inventory.MovementLineItem, len(m.Lines)),
	}
	for i, line := range m.Lines {
		doc.Lines[i] = *line.ToDomain()
	}
	return doc
}

// MovementDocumentModelFromDomain creates a header model from a domain MovementDocument.
// Lines are not copied; they are persisted one by one with AddLine.
func MovementDocumentModelFromDomain(d *inventory.MovementDocument) *MovementDocumentModel {
	m := &MovementDocumentModel{
		Kind:           d.Kind,
		DocumentDate:   d.DocumentDate,
		DeliveryNumber: d.DeliveryNumber,
		FromLocationID: d.FromLocationID,
		FromType:       d.FromType,
		ToLocationID:   d.ToLocationID,
		ToType:         d.ToType,
		TotalValue:     d.TotalValue,
		Stage:          d.Stage,
		UserID:         d.UserID,
		Remarks:        d.Remarks,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}

// MovementLineModel is the persistence model for one movement document line.
type MovementLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movement_line_number,priority:1"`
	LineNumber int             `gorm:"not null;uniqueIndex:idx_movement_line_number,priority:2"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MovementLineModel) TableName() string {
	return "movement_lines"
}

// ToDomain converts the persistence model to a domain MovementLineItem.
func (m *MovementLineModel) ToDomain() *inventory.MovementLineItem {
	return &inventory.MovementLineItem{
		ID:         m.ID,
		DocumentID: m.DocumentID,
		LineNumber: m.LineNumber,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		CreatedAt:  m.CreatedAt,
	}
}

// MovementLineModelFromDomain creates a new persistence model from a domain MovementLineItem.
func MovementLineModelFromDomain(l *inventory.MovementLineItem) *MovementLineModel {
	return &MovementLineModel{
		ID:         l.ID,
		DocumentID: l.DocumentID,
		LineNumber: l.LineNumber,
		ProductID:  l.ProductID,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		CreatedAt:  l.CreatedAt,
	}
}

// PhysicalInventoryModel is the persistence model for count document headers.
type PhysicalInventoryModel struct {
	BaseModel
	StoreID        uuid.UUID                        `gorm:"type:uuid;not null;index"`
	Description    string                           `gorm:"type:varchar(255);not null;default:''"`
	Stage          inventory.PhysicalInventoryStage `gorm:"type:varchar(20);not null;index"`
	ClosedDate     *time.Time
	CalculatedDate *time.Time
	CreatedBy      uuid.UUID `gorm:"type:uuid"`
	// Associations
	Lines []PhysicalCountLineModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (PhysicalInventoryModel) TableName() string {
	return "physical_inventories"
}

// ToDomain converts the persistence model to a domain PhysicalInventoryDocument.
func (m *PhysicalInventoryModel) ToDomain() *inventory.PhysicalInventoryDocument {
	doc := &inventory.PhysicalInventoryDocument{
		BaseEntity:     m.BaseModel.ToDomain(),
		StoreID:        m.StoreID,
		Description:    m.Description,
		Stage:          m.Stage,
		ClosedDate:     m.ClosedDate,
		CalculatedDate: m.CalculatedDate,
		CreatedBy:      m.CreatedBy,
		Lines:          make([]inventory.PhysicalCountLineItem, len(m.Lines)),
	}
	for i, line := range m.Lines {
		doc.Lines[i] = *line.ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model, including lines, from a domain document.
func (m *PhysicalInventoryModel) FromDomain(d *inventory.PhysicalInventoryDocument) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.StoreID = d.StoreID
	m.Description = d.Description
	m.Stage = d.Stage
	m.ClosedDate = d.ClosedDate
	m.CalculatedDate = d.CalculatedDate
	m.CreatedBy = d.CreatedBy
	m.Lines = make([]PhysicalCountLineModel, len(d.Lines))
	for i := range d.Lines {
		m.Lines[i] = *PhysicalCountLineModelFromDomain(&d.Lines[i])
	}
}

// PhysicalInventoryModelFromDomain creates a new persistence model from a domain document.
func PhysicalInventoryModelFromDomain(d *inventory.PhysicalInventoryDocument) *PhysicalInventoryModel {
	m := &PhysicalInventoryModel{}
	m.FromDomain(d)
	return m
}

// PhysicalCountLineModel is the persistence model for one counted product.
type PhysicalCountLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_count_line_number,priority:1"`
	LineNumber       int             `gorm:"not null;uniqueIndex:idx_count_line_number,priority:2"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CountedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpectedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpiryDate       *time.Time      `gorm:"type:date"`
	BatchNumber      string          `gorm:"type:varchar(50);not null;default:''"`
}

// TableName returns the table name for GORM
func (PhysicalCountLineModel) TableName() string {
	return "physical_count_lines"
}

// ToDomain converts the persistence model to a domain PhysicalCountLineItem.
func (m *PhysicalCountLineModel) ToDomain() *inventory.PhysicalCountLineItem {
	return &inventory.PhysicalCountLineItem{
		ID:               m.ID,
		DocumentID:       m.DocumentID,
		LineNumber:       m.LineNumber,
		ProductID:        m.ProductID,
		CountedQuantity:  m.CountedQuantity,
		ExpectedQuantity: m.ExpectedQuantity,
		UnitPrice:        m.UnitPrice,
		ExpiryDate:       normalizeDate(m.ExpiryDate),
		BatchNumber:      m.BatchNumber,
	}
}

// PhysicalCountLineModelFromDomain creates a new persistence model from a domain PhysicalCountLineItem.
func PhysicalCountLineModelFromDomain(l *inventory.PhysicalCountLineItem) *PhysicalCountLineModel {
	return &PhysicalCountLineModel{
		ID:               l.ID,
		DocumentID:       l.DocumentID,
		LineNumber:       l.LineNumber,
		ProductID:        l.ProductID,
		CountedQuantity:  l.CountedQuantity,
		ExpectedQuantity: l.ExpectedQuantity,
		UnitPrice:        l.UnitPrice,
		ExpiryDate:       normalizeDate(l.ExpiryDate),
		BatchNumber:      l.BatchNumber,
	}
}

// AllModels returns every ledger model in dependency order, for AutoMigrate in tests
func AllModels() []interface{} {
	return []interface{}{
		&ProductModel{},
		&LocationModel{},
		&StockLevelModel{},
		&ExpiryLotModel{},
		&LedgerTransactionModel{},
		&MovementDocumentModel{},
		&MovementLineModel{},
		&PhysicalInventoryModel{},
		&PhysicalCountLineModel{},
		&CostLogModel{},
		&StockBalanceSnapshotModel{},
	}
}
