package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var stockLevelKey = []clause.Column{{Name: "product_id"}, {Name: "location_id"}}

// GormStockLevelRepository implements StockLevelRepository using GORM.
// Both writes are single INSERT ... ON CONFLICT statements so concurrent
// movements on the same (product, location) never lose an update.
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// AdjustQuantity adds delta to the stock level, inserting it from zero if absent
func (r *GormStockLevelRepository) AdjustQuantity(ctx context.Context, productID, locationID uuid.UUID, delta decimal.Decimal) error {
	level := models.StockLevelModelFromDomain(inventory.NewStockLevel(productID, locationID, delta))
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: stockLevelKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("stock_levels.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(level).Error
}

// SetQuantity overwrites the stock level, inserting it if absent
func (r *GormStockLevelRepository) SetQuantity(ctx context.Context, productID, locationID uuid.UUID, quantity decimal.Decimal) error {
	level := models.StockLevelModelFromDomain(inventory.NewStockLevel(productID, locationID, quantity))
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   stockLevelKey,
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(level).Error
}

// FindByProductAndLocation finds the stock level of a product at a location
func (r *GormStockLevelRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	var model models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLocation lists the stock levels at a location
func (r *GormStockLevelRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]inventory.StockLevel, error) {
	var rows []models.StockLevelModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.StockLevelModel{}).Where("location_id = ?", locationID),
		filter, StockLevelSortFields, "created_at",
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	levels := make([]inventory.StockLevel, len(rows))
	for i := range rows {
		levels[i] = *rows[i].ToDomain()
	}
	return levels, nil
}

// Ensure GormStockLevelRepository implements StockLevelRepository
var _ inventory.StockLevelRepository = (*GormStockLevelRepository)(nil)
