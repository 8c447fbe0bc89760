package inventory

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product carries identity and the current cost fields.
// Cost fields are only changed by physical reconciliation.
type Product struct {
	shared.BaseEntity
	Code        string
	Name        string
	CostPrice   decimal.Decimal
	PrevCost    decimal.Decimal
	AverageCost decimal.Decimal
}

// NewProduct creates a new product with an initial cost price
func NewProduct(code, name string, costPrice decimal.Decimal) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        code,
		Name:        strings.TrimSpace(name),
		CostPrice:   costPrice,
		PrevCost:    decimal.Zero,
		AverageCost: costPrice,
	}, nil
}

// ApplyCountedPrice records a price observed during a physical count.
// The previous cost price is kept in PrevCost, and both CostPrice and
// AverageCost take the counted price verbatim (no weighting).
func (p *Product) ApplyCountedPrice(price decimal.Decimal) {
	p.PrevCost = p.CostPrice
	p.CostPrice = price
	p.AverageCost = price
	p.Touch(time.Now())
}
