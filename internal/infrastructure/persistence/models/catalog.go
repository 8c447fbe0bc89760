package models

import (
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product entity.
type ProductModel struct {
	BaseModel
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_code"`
	Name        string          `gorm:"type:varchar(200);not null;default:''"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PrevCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AverageCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *inventory.Product {
	return &inventory.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		CostPrice:   m.CostPrice,
		PrevCost:    m.PrevCost,
		AverageCost: m.AverageCost,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *inventory.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.CostPrice = p.CostPrice
	m.PrevCost = p.PrevCost
	m.AverageCost = p.AverageCost
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *inventory.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// LocationModel is the persistence model for stores, customers and suppliers.
type LocationModel struct {
	BaseModel
	Type inventory.LocationType `gorm:"type:varchar(20);not null;index"`
	Name string                 `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location entity.
func (m *LocationModel) ToDomain() *inventory.Location {
	return &inventory.Location{
		BaseEntity: m.BaseModel.ToDomain(),
		Type:       m.Type,
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain Location entity.
func (m *LocationModel) FromDomain(l *inventory.Location) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Type = l.Type
	m.Name = l.Name
}

// LocationModelFromDomain creates a new persistence model from a domain Location entity.
func LocationModelFromDomain(l *inventory.Location) *LocationModel {
	m := &LocationModel{}
	m.FromDomain(l)
	return m
}
