package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"stockdesk/internal/config"
	"stockdesk/internal/domain/models"
)

// SheetsWriter appends exported summary rows to a spreadsheet using the
// official Google Sheets API.
type SheetsWriter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewSheetsWriter builds a Google Sheets backed export target.
func NewSheetsWriter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetsWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetsWriter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummary appends one row per SummaryRow to the supplied sheet range.
func (w *SheetsWriter) AppendSummary(ctx context.Context, sheetRange string, rows []models.SummaryRow) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, summaryCells(row))
	}

	payload := &sheetsapi.ValueRange{Values: values}

	call := w.service.Spreadsheets.Values.Append(w.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary into range %s: %w", sheetRange, err)
	}

	w.logger.Debug("summary appended to sheet",
		zap.String("range", sheetRange),
		zap.Int("rows", len(rows)))
	return nil
}
