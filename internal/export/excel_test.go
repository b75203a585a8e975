package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"stockdesk/internal/domain/models"
)

func TestSummaryWorkbook(t *testing.T) {
	latest := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	rows := []models.SummaryRow{
		{GroupKey: "Acme", TotalQuantity: 6, LatestTimestamp: &latest, FirstNote: "restock"},
		{GroupKey: "Zen", TotalQuantity: 2},
	}

	data, err := SummaryWorkbook("Company Name", rows)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	get := func(cell string) string {
		v, err := f.GetCellValue("Sheet1", cell)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, "Date", get("A1"))
	assert.Equal(t, "Company Name", get("B1"))
	assert.Equal(t, "Notes", get("C1"))
	assert.Equal(t, "Total Quantity", get("D1"))

	assert.Equal(t, "2024-06-10", get("A2"))
	assert.Equal(t, "Acme", get("B2"))
	assert.Equal(t, "restock", get("C2"))
	assert.Equal(t, "6", get("D2"))

	// A missing latest timestamp renders the sentinel, a missing note a dash.
	assert.Equal(t, "N/A", get("A3"))
	assert.Equal(t, "-", get("C3"))
	assert.Equal(t, "2", get("D3"))
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "purchase-report-2024-06-10.xlsx", Filename("purchase", now))
}
