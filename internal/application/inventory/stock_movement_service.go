package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Ledger descriptions written on issue and receive entries
const (
	IssueDescriptionPrefix   = "Issued to: "
	ReceiveDescriptionPrefix = "Receive from: "
)

// StockMovementService issues and receives stock.
// Every public method runs in a single transaction: either all of its line
// items are applied or none are.
type StockMovementService struct {
	txScope TransactionScope
	logger  *zap.Logger
	metrics *telemetry.LedgerMetrics
	now     func() time.Time
}

// NewStockMovementService creates a new StockMovementService
func NewStockMovementService(txScope TransactionScope, logger *zap.Logger) *StockMovementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockMovementService{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

// SetMetrics sets the ledger metrics recorder (optional)
func (s *StockMovementService) SetMetrics(metrics *telemetry.LedgerMetrics) {
	s.metrics = metrics
}

// SetClock overrides the time source used to stamp documents and entries
func (s *StockMovementService) SetClock(now func() time.Time) {
	s.now = now
}

// Issue moves stock out of a store.
//
// It creates a COMPLETED issue document whose total is the sum of
// quantity x price, then for each line decrements the expiry lot (when an
// expiry date is given), decrements the store's stock level, appends an
// ISSUE ledger entry and appends the line item. Stock is allowed to go
// negative; a missing lot is reported in the result, not as an error.
func (s *StockMovementService) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_movement", "issue")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLocationID, req.FromLocationID.String(),
		telemetry.SpanAttrLineCount, len(req.Lines),
	)

	lines, err := toMovementLines(req.Lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	result := &IssueResult{LotOutcomes: make([]inventory.LotOutcome, 0, len(lines))}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc := inventory.NewIssueDocument(req.FromLocationID, req.To, lines, req.DeliveryNumber, req.ActingUserID)
		doc.DocumentDate = now
		doc.Stamp(now)
		if err := repos.MovementRepo().Create(ctx, doc); err != nil {
			return fmt.Errorf("failed to create issue document: %w", err)
		}

		description := IssueDescriptionPrefix + req.To.Description
		for i, line := range lines {
			outcome := inventory.LotSkipped
			if req.ExpiryDate != nil {
				var lotErr error
				outcome, lotErr = repos.LotRepo().DecreaseLot(ctx, req.FromLocationID, line.ProductID, *req.ExpiryDate, line.Quantity)
				if lotErr != nil {
					return fmt.Errorf("line %d: failed to decrease lot: %w", i+1, lotErr)
				}
			}
			result.LotOutcomes = append(result.LotOutcomes, outcome)

			if err := repos.StockLevelRepo().AdjustQuantity(ctx, line.ProductID, req.FromLocationID, line.Quantity.Neg()); err != nil {
				return fmt.Errorf("line %d: failed to adjust stock level: %w", i+1, err)
			}

			tx, err := inventory.NewLedgerTransaction(inventory.TransactionTypeIssue, inventory.DirectionOut,
				line.ProductID, req.FromLocationID, line.Quantity, line.UnitPrice, req.ActingUserID)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			tx.WithTransactionDate(now).
				WithSource(req.To.ID.String(), req.To.Description).
				WithReference(doc.Reference()).
				WithDescription(description).
				WithExpiryDate(req.ExpiryDate)
			if err := repos.TransactionRepo().Append(ctx, tx); err != nil {
				return fmt.Errorf("line %d: failed to append ledger transaction: %w", i+1, err)
			}
			result.Transactions = append(result.Transactions, tx)

			item := doc.AddLine(line)
			if err := repos.MovementRepo().AddLine(ctx, item); err != nil {
				return fmt.Errorf("line %d: failed to add issue line: %w", i+1, err)
			}
		}

		result.Document = doc
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, s.logger).Error("Stock issue failed",
			zap.String("from_location_id", req.FromLocationID.String()),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordMovement(ctx, inventory.TransactionTypeIssue.String(), len(lines))
	if missing := result.LotsNotFound(); missing > 0 {
		s.metrics.RecordLotMisses(ctx, missing)
		logger.Enrich(ctx, s.logger).Warn("Issued against missing expiry lots",
			zap.String("document_id", result.Document.ID.String()),
			zap.Int("lots_not_found", missing),
		)
	}
	logger.Enrich(ctx, s.logger).Info("Stock issued",
		zap.String("document_id", result.Document.ID.String()),
		zap.String("from_location_id", req.FromLocationID.String()),
		zap.String("to", req.To.Description),
		zap.Int("lines", len(lines)),
		zap.String("total", result.Document.TotalValue.String()),
	)
	return result, nil
}

// Receive moves stock into a store.
//
// For each line it increases the expiry lot (when an expiry date is given),
// increments the store's stock level and appends a RECEIVE ledger entry.
// No receive document is created; see CreateReceiveRecord and ReceiveWithRecord.
func (s *StockMovementService) Receive(ctx context.Context, req ReceiveRequest) (*ReceiveResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_movement", "receive")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLocationID, req.ToLocationID.String(),
		telemetry.SpanAttrLineCount, len(req.Lines),
	)

	lines, err := toMovementLines(req.Lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &ReceiveResult{}
	now := s.now()
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		txs, err := s.applyReceipt(ctx, repos, req, lines, now)
		if err != nil {
			return err
		}
		result.Transactions = txs
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, s.logger).Error("Stock receive failed",
			zap.String("to_location_id", req.ToLocationID.String()),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordMovement(ctx, inventory.TransactionTypeReceive.String(), len(lines))
	logger.Enrich(ctx, s.logger).Info("Stock received",
		zap.String("to_location_id", req.ToLocationID.String()),
		zap.String("from", req.From.Description),
		zap.Int("lines", len(lines)),
	)
	return result, nil
}

// CreateReceiveRecord creates a receive document and its line items in one
// transaction. It has no ledger effect on its own.
func (s *StockMovementService) CreateReceiveRecord(ctx context.Context, req CreateReceiveRecordRequest) (*inventory.MovementDocument, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_movement", "create_receive_record")
	defer span.End()

	lines, err := toMovementLines(req.Lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var doc *inventory.MovementDocument
	now := s.now()
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		d, err := s.createReceiveDocument(ctx, repos, req, lines, now)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Receive record created",
		zap.String("document_id", doc.ID.String()),
		zap.String("stage", doc.Stage.String()),
		zap.Int("lines", len(doc.Lines)),
	)
	return doc, nil
}

// ReceiveWithRecord applies the ledger effects of Receive and creates the
// receive document in the same transaction.
func (s *StockMovementService) ReceiveWithRecord(ctx context.Context, req ReceiveRequest, stage inventory.MovementStage, remarks string) (*ReceiveResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_movement", "receive_with_record")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLocationID, req.ToLocationID.String(),
		telemetry.SpanAttrLineCount, len(req.Lines),
	)

	lines, err := toMovementLines(req.Lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &ReceiveResult{}
	now := s.now()
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := s.createReceiveDocument(ctx, repos, CreateReceiveRecordRequest{
			ToLocationID:   req.ToLocationID,
			From:           req.From,
			Lines:          req.Lines,
			DeliveryNumber: req.DeliveryNumber,
			Stage:          stage,
			Remarks:        remarks,
			ActingUserID:   req.ActingUserID,
		}, lines, now)
		if err != nil {
			return err
		}
		txs, err := s.applyReceipt(ctx, repos, req, lines, now)
		if err != nil {
			return err
		}
		result.Document = doc
		result.Transactions = txs
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, s.logger).Error("Stock receive with record failed",
			zap.String("to_location_id", req.ToLocationID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordMovement(ctx, inventory.TransactionTypeReceive.String(), len(lines))
	logger.Enrich(ctx, s.logger).Info("Stock received with record",
		zap.String("document_id", result.Document.ID.String()),
		zap.String("to_location_id", req.ToLocationID.String()),
		zap.Int("lines", len(lines)),
	)
	return result, nil
}

func (s *StockMovementService) applyReceipt(
	ctx context.Context,
	repos TransactionalRepositories,
	req ReceiveRequest,
	lines []inventory.MovementLine,
	now time.Time,
) ([]*inventory.LedgerTransaction, error) {
	description := ReceiveDescriptionPrefix + req.From.Description
	txs := make([]*inventory.LedgerTransaction, 0, len(lines))

	for i, line := range lines {
		if req.ExpiryDate != nil {
			if err := repos.LotRepo().IncreaseLot(ctx, req.ToLocationID, line.ProductID, *req.ExpiryDate, req.BatchNumber, line.Quantity); err != nil {
				return nil, fmt.Errorf("line %d: failed to increase lot: %w", i+1, err)
			}
		}

		if err := repos.StockLevelRepo().AdjustQuantity(ctx, line.ProductID, req.ToLocationID, line.Quantity); err != nil {
			return nil, fmt.Errorf("line %d: failed to adjust stock level: %w", i+1, err)
		}

		tx, err := inventory.NewLedgerTransaction(inventory.TransactionTypeReceive, inventory.DirectionIn,
			line.ProductID, req.ToLocationID, line.Quantity, line.UnitPrice, req.ActingUserID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		tx.WithTransactionDate(now).
			WithSource(req.From.ID.String(), req.From.Description).
			WithReference(req.DeliveryNumber).
			WithDescription(description).
			WithExpiryDate(req.ExpiryDate)
		if err := repos.TransactionRepo().Append(ctx, tx); err != nil {
			return nil, fmt.Errorf("line %d: failed to append ledger transaction: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *StockMovementService) createReceiveDocument(
	ctx context.Context,
	repos TransactionalRepositories,
	req CreateReceiveRecordRequest,
	lines []inventory.MovementLine,
	now time.Time,
) (*inventory.MovementDocument, error) {
	doc, err := inventory.NewReceiveDocument(req.ToLocationID, req.From, lines, req.DeliveryNumber, req.Stage, req.Remarks, req.ActingUserID)
	if err != nil {
		return nil, err
	}
	doc.DocumentDate = now
	doc.Stamp(now)

	if err := repos.MovementRepo().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create receive document: %w", err)
	}
	for i, line := range lines {
		item := doc.AddLine(line)
		if err := repos.MovementRepo().AddLine(ctx, item); err != nil {
			return nil, fmt.Errorf("line %d: failed to add receive line: %w", i+1, err)
		}
	}
	return doc, nil
}
