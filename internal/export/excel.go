// Package export renders already-aggregated summary rows for external
// consumers: an .xlsx download and a Google Sheets append target. Nothing in
// here aggregates; it only formats what the reports service derived.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"stockdesk/internal/domain/models"
)

const summarySheet = "Sheet1"

const dateLayout = "2006-01-02"

// SummaryWorkbook renders summary rows into a spreadsheet with the report's
// standard columns. groupHeader names the second column ("Company Name" for
// purchases, "Customer Name" for returns).
func SummaryWorkbook(groupHeader string, rows []models.SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headers := []string{"Date", groupHeader, "Notes", "Total Quantity"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := summaryCells(row)
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// summaryCells flattens one row into the export column order.
func summaryCells(row models.SummaryRow) []any {
	date := models.NoValue
	if row.LatestTimestamp != nil {
		date = row.LatestTimestamp.Format(dateLayout)
	}
	notes := row.FirstNote
	if notes == "" {
		notes = "-"
	}
	return []any{date, row.GroupKey, notes, row.TotalQuantity}
}

// Filename builds the download name used by the HTTP surface.
func Filename(report string, now time.Time) string {
	return fmt.Sprintf("%s-report-%s.xlsx", report, now.Format(dateLayout))
}
