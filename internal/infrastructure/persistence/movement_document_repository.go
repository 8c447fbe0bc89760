package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMovementDocumentRepository implements MovementDocumentRepository using GORM
type GormMovementDocumentRepository struct {
	db *gorm.DB
}

// NewGormMovementDocumentRepository creates a new GormMovementDocumentRepository
func NewGormMovementDocumentRepository(db *gorm.DB) *GormMovementDocumentRepository {
	return &GormMovementDocumentRepository{db: db}
}

// Create inserts the document header
func (r *GormMovementDocumentRepository) Create(ctx context.Context, doc *inventory.MovementDocument) error {
	return r.db.WithContext(ctx).Create(models.MovementDocumentModelFromDomain(doc)).Error
}

// AddLine inserts one document line
func (r *GormMovementDocumentRepository) AddLine(ctx context.Context, line *inventory.MovementLineItem) error {
	return r.db.WithContext(ctx).Create(models.MovementLineModelFromDomain(line)).Error
}

// FindByID loads a document with its lines in line order
func (r *GormMovementDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.MovementDocument, error) {
	var model models.MovementDocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormMovementDocumentRepository implements MovementDocumentRepository
var _ inventory.MovementDocumentRepository = (*GormMovementDocumentRepository)(nil)
