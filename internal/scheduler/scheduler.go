package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/config"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
	"github.com/agritrace/agritrace/internal/repository/sheets"
)

const dateFormat = "2006-01-02 15:04:05"

// Scheduler runs the daily audit export: the past day's provenance ledger
// entries are appended to the audit spreadsheet.
type Scheduler struct {
	cron      *cron.Cron
	repo      mongodb.Repository
	auditBook sheets.AuditBook
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, repo mongodb.Repository, auditBook sheets.AuditBook, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		repo:      repo,
		auditBook: auditBook,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers and starts the scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	_, err := s.cron.AddFunc(s.cfg.Audit.CronSchedule, s.exportDailyAudit)
	if err != nil {
		s.logger.Error("failed to schedule audit export", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) exportDailyAudit() {
	s.logger.Info("exporting daily audit")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	since := time.Now().UTC().AddDate(0, 0, -1)
	txs, err := s.repo.ListTransactionsSince(ctx, since)
	if err != nil {
		s.logger.Error("failed to load transactions for audit", zap.Error(err))
		return
	}

	exported := 0
	for _, tx := range txs {
		row := []interface{}{
			tx.Timestamp.Format(dateFormat),
			tx.ID,
			tx.BatchID,
			string(tx.Type),
			tx.From,
			tx.To,
			string(tx.Status),
		}
		if err := s.auditBook.AppendRow(ctx, row); err != nil {
			s.logger.Error("failed to append audit row", zap.String("tx_id", tx.ID), zap.Error(err))
			continue
		}
		exported++
	}

	s.logger.Info("daily audit exported", zap.Int("rows", exported), zap.Int("total", len(txs)))
}
