package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpiryLotRepository implements ExpiryLotRepository using GORM
type GormExpiryLotRepository struct {
	db *gorm.DB
}

// NewGormExpiryLotRepository creates a new GormExpiryLotRepository
func NewGormExpiryLotRepository(db *gorm.DB) *GormExpiryLotRepository {
	return &GormExpiryLotRepository{db: db}
}

// findLot returns the oldest lot matching the key, or nil if there is none
func (r *GormExpiryLotRepository) findLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time) (*models.ExpiryLotModel, error) {
	var lot models.ExpiryLotModel
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND product_id = ? AND expiry_date = ?", locationID, productID, inventory.NormalizeExpiryDate(expiry)).
		Order("created_at ASC").
		First(&lot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// IncreaseLot adds qty to the oldest matching lot or creates one. The
// read and the insert are separate statements and the key has no unique
// index, so two concurrent first receipts for the same key can leave two
// rows. Later increases go to the oldest row and reads sum them all.
func (r *GormExpiryLotRepository) IncreaseLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time, batch string, qty decimal.Decimal) error {
	lot, err := r.findLot(ctx, locationID, productID, expiry)
	if err != nil {
		return err
	}
	if lot == nil {
		return r.Create(ctx, inventory.NewExpiryLot(locationID, productID, expiry, batch, qty))
	}

	return r.db.WithContext(ctx).
		Model(&models.ExpiryLotModel{}).
		Where("id = ?", lot.ID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}).Error
}

// DecreaseLot subtracts qty from the matching lot and deletes it once it is
// at or below zero
func (r *GormExpiryLotRepository) DecreaseLot(ctx context.Context, locationID, productID uuid.UUID, expiry time.Time, qty decimal.Decimal) (inventory.LotOutcome, error) {
	lot, err := r.findLot(ctx, locationID, productID, expiry)
	if err != nil {
		return "", err
	}
	if lot == nil {
		return inventory.LotNotFound, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.ExpiryLotModel{}).
		Where("id = ?", lot.ID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now(),
		}).Error; err != nil {
		return "", err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND quantity <= 0", lot.ID).
		Delete(&models.ExpiryLotModel{})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected > 0 {
		return inventory.LotDepleted, nil
	}
	return inventory.LotDecremented, nil
}

// ClearLots deletes all lots of the products at the location
func (r *GormExpiryLotRepository) ClearLots(ctx context.Context, locationID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("location_id = ? AND product_id IN ?", locationID, productIDs).
		Delete(&models.ExpiryLotModel{}).Error
}

// Create inserts a lot
func (r *GormExpiryLotRepository) Create(ctx context.Context, lot *inventory.ExpiryLot) error {
	return r.db.WithContext(ctx).Create(models.ExpiryLotModelFromDomain(lot)).Error
}

// FindByLocationAndProduct lists lots ordered by expiry date
func (r *GormExpiryLotRepository) FindByLocationAndProduct(ctx context.Context, locationID, productID uuid.UUID) ([]inventory.ExpiryLot, error) {
	var rows []models.ExpiryLotModel
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND product_id = ?", locationID, productID).
		Order("expiry_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lots := make([]inventory.ExpiryLot, len(rows))
	for i := range rows {
		lots[i] = *rows[i].ToDomain()
	}
	return lots, nil
}

// Ensure GormExpiryLotRepository implements ExpiryLotRepository
var _ inventory.ExpiryLotRepository = (*GormExpiryLotRepository)(nil)
