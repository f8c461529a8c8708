// Package trace serves the consumer provenance lookup: scan a QR code or
// type a batch id, get the batch and its full transaction history.
package trace

import (
	"context"

	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
)

// Report is the consumer-facing provenance view of one batch.
type Report struct {
	Batch   models.ProduceBatch  `json:"batch"`
	History []models.Transaction `json:"history"`
}

// Service assembles provenance reports.
type Service struct {
	repo   mongodb.Repository
	logger *zap.Logger
}

// NewService wires a trace service instance.
func NewService(repo mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Lookup returns the batch and its ledger history, oldest entry first.
// Unknown ids surface mongodb.ErrBatchNotFound.
func (s *Service) Lookup(ctx context.Context, batchID string) (*Report, error) {
	batch, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListTransactionsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("trace lookup", zap.String("batch_id", batchID), zap.Int("history", len(history)))
	return &Report{Batch: batch, History: history}, nil
}
