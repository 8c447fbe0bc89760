package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreLocker serializes reconciliation commits per store.
// Acquire returns inventory.ErrStoreLocked when another holder has the store.
type StoreLocker interface {
	Acquire(ctx context.Context, storeID uuid.UUID) (release func(context.Context) error, err error)
}

// ReconciliationService commits physical counts to the ledger
type ReconciliationService struct {
	txScope TransactionScope
	locker  StoreLocker
	logger  *zap.Logger
	metrics *telemetry.LedgerMetrics
	now     func() time.Time
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(txScope TransactionScope, logger *zap.Logger) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

// SetStoreLocker sets the per-store commit lock (optional)
func (s *ReconciliationService) SetStoreLocker(locker StoreLocker) {
	s.locker = locker
}

// SetMetrics sets the ledger metrics recorder (optional)
func (s *ReconciliationService) SetMetrics(metrics *telemetry.LedgerMetrics) {
	s.metrics = metrics
}

// SetClock overrides the time source used to stamp the commit
func (s *ReconciliationService) SetClock(now func() time.Time) {
	s.now = now
}

// Commit reconciles the ledger of the document's store to the physical count.
//
// In one transaction it closes the document, clears the expiry lots of every
// counted product at the store, recreates lots from count lines with an
// expiry date, posts a SYSTEM_ADJUSTMENT entry and a cost update for every
// line whose count differs from the expected quantity, sets each product's
// stock level to its counted total and replaces the balance snapshots for
// the commit instant. A document can only be committed once.
func (s *ReconciliationService) Commit(ctx context.Context, documentID, actingUserID uuid.UUID) (*CommitResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "commit")
	defer span.End()

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, documentID.String())

	if s.locker != nil {
		storeID, err := s.lookupStore(ctx, documentID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		release, err := s.locker.Acquire(ctx, storeID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Enrich(ctx, s.logger).Warn("Failed to release store lock",
					zap.String("store_id", storeID.String()),
					zap.Error(err),
				)
			}
		}()
	}

	at := s.now().UTC().Truncate(time.Second)
	var result *CommitResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := s.commit(ctx, repos, documentID, actingUserID, at)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, s.logger).Error("Physical inventory commit failed",
			zap.String("document_id", documentID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLocationID, result.Document.StoreID.String(),
		telemetry.SpanAttrLineCount, len(result.Document.Lines),
		"adjustments", len(result.Adjustments),
	)
	s.metrics.RecordReconciliation(ctx, len(result.Adjustments), result.SkippedLines)
	logger.Enrich(ctx, s.logger).Info("Physical inventory committed",
		zap.String("document_id", documentID.String()),
		zap.String("store_id", result.Document.StoreID.String()),
		zap.Int("lines", len(result.Document.Lines)),
		zap.Int("products", len(result.Totals)),
		zap.Int("adjustments", len(result.Adjustments)),
		zap.Int("skipped_lines", result.SkippedLines),
		zap.Int("lots_created", result.LotsCreated),
	)
	return result, nil
}

func (s *ReconciliationService) lookupStore(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error) {
	var storeID uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.PhysicalInventoryRepo().FindByID(ctx, documentID)
		if err != nil {
			return err
		}
		if doc.IsClosed() {
			return inventory.ErrDocumentAlreadyClosed
		}
		storeID = doc.StoreID
		return nil
	})
	return storeID, err
}

func (s *ReconciliationService) commit(
	ctx context.Context,
	repos TransactionalRepositories,
	documentID, userID uuid.UUID,
	at time.Time,
) (*CommitResult, error) {
	doc, err := repos.PhysicalInventoryRepo().FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := repos.PhysicalInventoryRepo().MarkClosed(ctx, doc.ID, at); err != nil {
		return nil, err
	}
	if err := doc.Close(at); err != nil {
		return nil, err
	}

	plan, err := inventory.PlanReconciliation(doc, at, userID)
	if err != nil {
		return nil, err
	}

	if len(plan.ProductIDs) > 0 {
		if err := repos.LotRepo().ClearLots(ctx, doc.StoreID, plan.ProductIDs); err != nil {
			return nil, fmt.Errorf("failed to clear lots: %w", err)
		}
	}
	for _, lot := range plan.Lots {
		if err := repos.LotRepo().Create(ctx, lot); err != nil {
			return nil, fmt.Errorf("failed to create lot for product %s: %w", lot.ProductID, err)
		}
	}

	for _, tx := range plan.Adjustments {
		if err := repos.TransactionRepo().Append(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to append adjustment for product %s: %w", tx.ProductID, err)
		}
	}
	for _, change := range plan.CostChanges {
		if err := repos.ProductRepo().ApplyCountedPrice(ctx, change.ProductID, change.Price); err != nil {
			return nil, fmt.Errorf("failed to update cost of product %s: %w", change.ProductID, err)
		}
	}
	for _, entry := range plan.CostLogs {
		if err := repos.CostLogRepo().Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to append cost log for product %s: %w", entry.ProductID, err)
		}
	}

	for _, total := range plan.Totals {
		if err := repos.StockLevelRepo().SetQuantity(ctx, total.ProductID, doc.StoreID, total.Quantity); err != nil {
			return nil, fmt.Errorf("failed to set stock level for product %s: %w", total.ProductID, err)
		}
	}

	if len(plan.ProductIDs) > 0 {
		if err := repos.SnapshotRepo().DeleteAt(ctx, at, doc.StoreID, plan.ProductIDs); err != nil {
			return nil, fmt.Errorf("failed to delete balance snapshots: %w", err)
		}
		if err := repos.SnapshotRepo().CreateBatch(ctx, plan.Snapshots); err != nil {
			return nil, fmt.Errorf("failed to create balance snapshots: %w", err)
		}
	}

	return &CommitResult{
		Document:     doc,
		ClosedAt:     at,
		Totals:       plan.Totals,
		Adjustments:  plan.Adjustments,
		LotsCreated:  len(plan.Lots),
		SkippedLines: len(doc.Lines) - len(plan.Adjustments),
	}, nil
}
