// Package cli decodes and validates operator JSON requests, calls the ledger
// services and renders their results as JSON responses.
package cli

import (
	"context"
	"io"

	appinventory "github.com/erp/stockledger/internal/application/inventory"
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MovementService is the part of the stock movement service the commands use
type MovementService interface {
	Issue(ctx context.Context, req appinventory.IssueRequest) (*appinventory.IssueResult, error)
	Receive(ctx context.Context, req appinventory.ReceiveRequest) (*appinventory.ReceiveResult, error)
	ReceiveWithRecord(ctx context.Context, req appinventory.ReceiveRequest, stage inventory.MovementStage, remarks string) (*appinventory.ReceiveResult, error)
	CreateReceiveRecord(ctx context.Context, req appinventory.CreateReceiveRecordRequest) (*inventory.MovementDocument, error)
}

// Reconciler commits physical inventory documents
type Reconciler interface {
	Commit(ctx context.Context, documentID, actingUserID uuid.UUID) (*appinventory.CommitResult, error)
}

// Handler runs one operator command per call
type Handler struct {
	movements  MovementService
	reconciler Reconciler
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(movements MovementService, reconciler Reconciler, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		movements:  movements,
		reconciler: reconciler,
		validate:   NewValidator(),
		logger:     logger,
	}
}

// Issue handles the issue command
func (h *Handler) Issue(ctx context.Context, body io.Reader) Response {
	var in IssueInput
	if err := Decode(h.validate, body, &in); err != nil {
		return h.fail(ctx, "issue", err)
	}
	req, err := in.ToRequest()
	if err != nil {
		return h.fail(ctx, "issue", err)
	}
	ctx = h.withActor(ctx, in.ActingUserID, in.FromLocationID)

	result, err := h.movements.Issue(ctx, req)
	if err != nil {
		return h.fail(ctx, "issue", err)
	}
	return NewSuccessResponse(newIssueView(result))
}

// Receive handles the receive command. With with_record set the receive
// document is created together with the ledger effects.
func (h *Handler) Receive(ctx context.Context, body io.Reader) Response {
	var in ReceiveInput
	if err := Decode(h.validate, body, &in); err != nil {
		return h.fail(ctx, "receive", err)
	}
	req, err := in.ToRequest()
	if err != nil {
		return h.fail(ctx, "receive", err)
	}
	ctx = h.withActor(ctx, in.ActingUserID, in.ToLocationID)

	var result *appinventory.ReceiveResult
	if in.WithRecord {
		stage, serr := in.MovementStage()
		if serr != nil {
			return h.fail(ctx, "receive", serr)
		}
		result, err = h.movements.ReceiveWithRecord(ctx, req, stage, in.Remarks)
	} else {
		result, err = h.movements.Receive(ctx, req)
	}
	if err != nil {
		return h.fail(ctx, "receive", err)
	}
	return NewSuccessResponse(newReceiveView(result))
}

// ReceiveRecord handles the receive-record command
func (h *Handler) ReceiveRecord(ctx context.Context, body io.Reader) Response {
	var in ReceiveInput
	if err := Decode(h.validate, body, &in); err != nil {
		return h.fail(ctx, "receive-record", err)
	}
	req, err := in.ToRecordRequest()
	if err != nil {
		return h.fail(ctx, "receive-record", err)
	}
	ctx = h.withActor(ctx, in.ActingUserID, in.ToLocationID)

	doc, err := h.movements.CreateReceiveRecord(ctx, req)
	if err != nil {
		return h.fail(ctx, "receive-record", err)
	}
	return NewSuccessResponse(newDocumentView(doc))
}

// Commit handles the commit command
func (h *Handler) Commit(ctx context.Context, body io.Reader) Response {
	var in CommitInput
	if err := Decode(h.validate, body, &in); err != nil {
		return h.fail(ctx, "commit", err)
	}
	ctx = h.withActor(ctx, in.ActingUserID, uuid.Nil)

	result, err := h.reconciler.Commit(ctx, in.DocumentID, in.ActingUserID)
	if err != nil {
		return h.fail(ctx, "commit", err)
	}
	return NewSuccessResponse(newCommitView(result))
}

// withActor records the acting user and store on ctx for log enrichment
func (h *Handler) withActor(ctx context.Context, userID, storeID uuid.UUID) context.Context {
	if userID != uuid.Nil {
		ctx, _ = logger.WithUserID(ctx, h.logger, userID.String())
	}
	if storeID != uuid.Nil {
		ctx, _ = logger.WithStoreID(ctx, h.logger, storeID.String())
	}
	return ctx
}

func (h *Handler) fail(ctx context.Context, command string, err error) Response {
	resp := ErrorResponseFor(err)
	log := logger.Enrich(ctx, h.logger)
	if resp.Error.Code == ErrCodeInternal {
		log.Error("Command failed", zap.String("command", command), zap.Error(err))
	} else {
		log.Warn("Command rejected",
			zap.String("command", command),
			zap.String("code", resp.Error.Code),
			zap.Error(err),
		)
	}
	return resp
}
