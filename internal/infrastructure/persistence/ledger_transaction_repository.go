package persistence

import (
	"context"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerTransactionRepository implements LedgerTransactionRepository using GORM.
// It only inserts and reads.
type GormLedgerTransactionRepository struct {
	db *gorm.DB
}

// NewGormLedgerTransactionRepository creates a new GormLedgerTransactionRepository
func NewGormLedgerTransactionRepository(db *gorm.DB) *GormLedgerTransactionRepository {
	return &GormLedgerTransactionRepository{db: db}
}

// Append inserts a ledger entry
func (r *GormLedgerTransactionRepository) Append(ctx context.Context, tx *inventory.LedgerTransaction) error {
	return r.db.WithContext(ctx).Create(models.LedgerTransactionModelFromDomain(tx)).Error
}

// FindByReference lists the entries posted under a reference
func (r *GormLedgerTransactionRepository) FindByReference(ctx context.Context, reference string) ([]inventory.LedgerTransaction, error) {
	var rows []models.LedgerTransactionModel
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerTransactions(rows), nil
}

// FindByProductAndLocation lists the entries of a product at a location
func (r *GormLedgerTransactionRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID, filter shared.Filter) ([]inventory.LedgerTransaction, error) {
	var rows []models.LedgerTransactionModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.LedgerTransactionModel{}).
			Where("product_id = ? AND location_id = ?", productID, locationID),
		filter, LedgerTransactionSortFields, "transaction_date",
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerTransactions(rows), nil
}

func toLedgerTransactions(rows []models.LedgerTransactionModel) []inventory.LedgerTransaction {
	txs := make([]inventory.LedgerTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs
}

// Ensure GormLedgerTransactionRepository implements LedgerTransactionRepository
var _ inventory.LedgerTransactionRepository = (*GormLedgerTransactionRepository)(nil)
