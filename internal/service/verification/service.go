// Package verification applies batch lifecycle transitions on behalf of
// supply-chain actors. Every transition is gated by the current status,
// guarded against duplicate in-flight requests, settled through the ledger
// client, and recorded as a provenance transaction.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
	"github.com/agritrace/agritrace/pkg/clients/ledger"
)

// ErrInvalidAction indicates an action other than verify or reject.
var ErrInvalidAction = errors.New("invalid verification action")

// ErrInvalidTransition indicates the requested status change is not a legal
// lifecycle step from the batch's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrBatchInFlight indicates another transition for the batch is awaiting
// ledger confirmation.
var ErrBatchInFlight = errors.New("batch transition already in flight")

// ErrConfirmationTimeout indicates the ledger did not confirm within the
// configured bound.
var ErrConfirmationTimeout = errors.New("ledger confirmation timed out")

// Action is a distributor decision on a pending batch.
type Action string

const (
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
)

// Workflow describes the operations the HTTP layer can perform.
type Workflow interface {
	SubmitBatch(ctx context.Context, batch models.ProduceBatch) (models.ProduceBatch, error)
	VerifyBatch(ctx context.Context, batchID string, action Action) (models.ProduceBatch, error)
	UpdateStatus(ctx context.Context, batchID string, newStatus models.BatchStatus) (models.ProduceBatch, error)
}

// Service implements the Workflow interface.
type Service struct {
	repo           mongodb.Repository
	ledger         ledger.Client
	inflight       *inflightGuard
	confirmTimeout time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewService wires the verification workflow.
func NewService(repo mongodb.Repository, ledgerClient ledger.Client, confirmTimeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:           repo,
		ledger:         ledgerClient,
		inflight:       newInflightGuard(),
		confirmTimeout: confirmTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// SubmitBatch records a farmer submission. The batch starts pending and
// gets a harvest entry in the provenance ledger.
func (s *Service) SubmitBatch(ctx context.Context, batch models.ProduceBatch) (models.ProduceBatch, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	batch.Status = models.StatusPending
	batch.CreatedAt = s.now().UTC()

	if err := s.repo.InsertBatch(ctx, batch); err != nil {
		return models.ProduceBatch{}, err
	}

	s.appendTransaction(ctx, models.Transaction{
		BatchID: batch.ID,
		Type:    models.TxHarvest,
		From:    batch.Location,
		To:      "Farm Storage",
		Status:  models.TxStatusConfirmed,
	})

	s.logger.Info("batch submitted",
		zap.String("batch_id", batch.ID),
		zap.String("farmer_id", batch.FarmerID),
		zap.String("crop", batch.CropType))
	return batch, nil
}

// VerifyBatch applies a distributor's verify or reject decision. Only valid
// while the batch is pending; re-invocation after the transition is
// rejected by the precondition check.
func (s *Service) VerifyBatch(ctx context.Context, batchID string, action Action) (models.ProduceBatch, error) {
	var target models.BatchStatus
	switch action {
	case ActionVerify:
		target = models.StatusVerified
	case ActionReject:
		target = models.StatusRejected
	default:
		return models.ProduceBatch{}, ErrInvalidAction
	}

	return s.transition(ctx, batchID, models.StatusPending, target, string(action), models.TxVerification)
}

// UpdateStatus advances a batch along the post-verification lifecycle. The
// distributor may ship a verified batch; downstream logistics and retail
// actors report delivery and sale through the same path.
func (s *Service) UpdateStatus(ctx context.Context, batchID string, newStatus models.BatchStatus) (models.ProduceBatch, error) {
	batch, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		return models.ProduceBatch{}, err
	}

	if newStatus == models.StatusVerified || newStatus == models.StatusRejected {
		// Verification decisions go through VerifyBatch.
		return models.ProduceBatch{}, ErrInvalidTransition
	}
	if !batch.Status.CanTransitionTo(newStatus) {
		return models.ProduceBatch{}, ErrInvalidTransition
	}

	txType := models.TxTransfer
	if newStatus == models.StatusSold {
		txType = models.TxSale
	}
	return s.transition(ctx, batchID, batch.Status, newStatus, string(newStatus), txType)
}

// transition performs one guarded, ledger-confirmed status change.
func (s *Service) transition(ctx context.Context, batchID string, from, to models.BatchStatus, action string, txType models.TransactionType) (models.ProduceBatch, error) {
	if !s.inflight.tryAcquire(batchID) {
		return models.ProduceBatch{}, ErrBatchInFlight
	}
	defer s.inflight.release(batchID)

	batch, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		return models.ProduceBatch{}, err
	}
	if batch.Status != from {
		return models.ProduceBatch{}, fmt.Errorf("%w: batch %s is %s, expected %s",
			ErrInvalidTransition, batchID, batch.Status, from)
	}

	confirmation, err := s.awaitConfirmation(ctx, batchID, action)
	if err != nil {
		return models.ProduceBatch{}, err
	}

	if err := s.repo.TransitionBatch(ctx, batchID, from, to, confirmation.TxID); err != nil {
		return models.ProduceBatch{}, err
	}

	s.appendTransaction(ctx, models.Transaction{
		BatchID:        batchID,
		Type:           txType,
		From:           string(from),
		To:             string(to),
		BlockchainTxID: confirmation.TxID,
		Status:         models.TxStatusConfirmed,
	})

	s.logger.Info("batch transitioned",
		zap.String("batch_id", batchID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("ledger_tx", confirmation.TxID))

	batch.Status = to
	batch.BlockchainTxID = confirmation.TxID
	return batch, nil
}

// awaitConfirmation settles the transition with the ledger under a bounded
// timeout. A timeout is reported as a distinct error rather than hanging.
func (s *Service) awaitConfirmation(ctx context.Context, batchID, action string) (*ledger.Confirmation, error) {
	confirmCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	confirmation, err := s.ledger.Confirm(confirmCtx, ledger.ConfirmRequest{BatchID: batchID, Action: action})
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrConfirmationTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("ledger confirmation failed: %w", err)
	}
	return confirmation, nil
}

// appendTransaction records a provenance entry. Ledger bookkeeping is
// best-effort relative to the status change itself.
func (s *Service) appendTransaction(ctx context.Context, tx models.Transaction) {
	tx.ID = uuid.NewString()
	tx.Timestamp = s.now().UTC()
	if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		s.logger.Error("failed to record provenance transaction",
			zap.String("batch_id", tx.BatchID), zap.Error(err))
	}
}
