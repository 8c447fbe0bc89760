package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPhysicalInventoryRepository implements PhysicalInventoryRepository using GORM
type GormPhysicalInventoryRepository struct {
	db *gorm.DB
}

// NewGormPhysicalInventoryRepository creates a new GormPhysicalInventoryRepository
func NewGormPhysicalInventoryRepository(db *gorm.DB) *GormPhysicalInventoryRepository {
	return &GormPhysicalInventoryRepository{db: db}
}

// Save writes the header and replaces the document's lines
func (r *GormPhysicalInventoryRepository) Save(ctx context.Context, doc *inventory.PhysicalInventoryDocument) error {
	model := models.PhysicalInventoryModelFromDomain(doc)
	lines := model.Lines
	model.Lines = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&models.PhysicalCountLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// FindByID loads a document with its lines in line order
func (r *GormPhysicalInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PhysicalInventoryDocument, error) {
	var model models.PhysicalInventoryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrDocumentNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkClosed closes the document only if it is still open. The conditional
// update is the guard against committing the same count twice.
func (r *GormPhysicalInventoryRepository) MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PhysicalInventoryModel{}).
		Where("id = ? AND stage <> ?", id, inventory.PhysicalInventoryStageClosed).
		Updates(map[string]interface{}{
			"stage":           inventory.PhysicalInventoryStageClosed,
			"closed_date":     at,
			"calculated_date": at,
			"updated_at":      at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PhysicalInventoryModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return inventory.ErrDocumentNotFound
	}
	return inventory.ErrDocumentAlreadyClosed
}

// Ensure GormPhysicalInventoryRepository implements PhysicalInventoryRepository
var _ inventory.PhysicalInventoryRepository = (*GormPhysicalInventoryRepository)(nil)
