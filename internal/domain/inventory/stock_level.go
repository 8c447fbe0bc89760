package inventory

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is the on-hand quantity of one product at one location.
// Rows are created lazily on the first movement touching the pair and the
// quantity is allowed to go negative.
type StockLevel struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	LocationID uuid.UUID
	Quantity   decimal.Decimal
}

// NewStockLevel creates a stock level with the given starting quantity
func NewStockLevel(productID, locationID uuid.UUID, quantity decimal.Decimal) *StockLevel {
	return &StockLevel{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
	}
}

// IsNegative returns true if more has left the location than was recorded in
func (s *StockLevel) IsNegative() bool {
	return s.Quantity.IsNegative()
}
