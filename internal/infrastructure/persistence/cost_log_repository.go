package persistence

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCostLogRepository implements CostLogRepository using GORM
type GormCostLogRepository struct {
	db *gorm.DB
}

// NewGormCostLogRepository creates a new GormCostLogRepository
func NewGormCostLogRepository(db *gorm.DB) *GormCostLogRepository {
	return &GormCostLogRepository{db: db}
}

// Append inserts a cost log entry
func (r *GormCostLogRepository) Append(ctx context.Context, entry *inventory.CostLogEntry) error {
	return r.db.WithContext(ctx).Create(models.CostLogModelFromDomain(entry)).Error
}

// FindByProduct lists a product's cost history, oldest first
func (r *GormCostLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.CostLogEntry, error) {
	var rows []models.CostLogModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("logged_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]inventory.CostLogEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// GormStockBalanceSnapshotRepository implements StockBalanceSnapshotRepository using GORM
type GormStockBalanceSnapshotRepository struct {
	db *gorm.DB
}

// NewGormStockBalanceSnapshotRepository creates a new GormStockBalanceSnapshotRepository
func NewGormStockBalanceSnapshotRepository(db *gorm.DB) *GormStockBalanceSnapshotRepository {
	return &GormStockBalanceSnapshotRepository{db: db}
}

// DeleteAt removes the snapshots of the products at the store for one instant
func (r *GormStockBalanceSnapshotRepository) DeleteAt(ctx context.Context, at time.Time, storeID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("transaction_date = ? AND store_id = ? AND product_id IN ?", inventory.SnapshotInstant(at), storeID, productIDs).
		Delete(&models.StockBalanceSnapshotModel{}).Error
}

// CreateBatch inserts snapshot rows
func (r *GormStockBalanceSnapshotRepository) CreateBatch(ctx context.Context, snapshots []*inventory.StockBalanceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	rows := make([]*models.StockBalanceSnapshotModel, len(snapshots))
	for i, s := range snapshots {
		rows[i] = models.StockBalanceSnapshotModelFromDomain(s)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByStore lists the snapshots of a store by instant then product
func (r *GormStockBalanceSnapshotRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.StockBalanceSnapshot, error) {
	var rows []models.StockBalanceSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("transaction_date ASC, product_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	snapshots := make([]inventory.StockBalanceSnapshot, len(rows))
	for i := range rows {
		snapshots[i] = *rows[i].ToDomain()
	}
	return snapshots, nil
}

// Ensure the repositories implement their interfaces
var (
	_ inventory.CostLogRepository              = (*GormCostLogRepository)(nil)
	_ inventory.StockBalanceSnapshotRepository = (*GormStockBalanceSnapshotRepository)(nil)
)
