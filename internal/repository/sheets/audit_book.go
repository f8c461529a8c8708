package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/agritrace/agritrace/internal/config"
)

const auditWriteRange = "Audit!A:G"

// AuditBook appends provenance ledger rows to a spreadsheet so operators
// can review the day's supply-chain activity outside the database.
type AuditBook interface {
	AppendRow(ctx context.Context, values []interface{}) error
}

// GoogleSheetAuditBook implements AuditBook using the official Google
// Sheets API.
type GoogleSheetAuditBook struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetAuditBook builds a Sheets-backed audit book.
func NewGoogleSheetAuditBook(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (AuditBook, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetAuditBook{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRow appends the provided values to the audit range.
func (b *GoogleSheetAuditBook) AppendRow(ctx context.Context, values []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := b.service.Spreadsheets.Values.Append(b.spreadsheetID, auditWriteRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", auditWriteRange, err)
	}

	b.logger.Debug("row appended to audit book", zap.String("range", auditWriteRange))
	return nil
}
