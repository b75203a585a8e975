package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/repository/inventory/inventorytest"
)

func TestRefreshToday_ReplacesWholesale(t *testing.T) {
	responses := [][]models.TransactionRecord{
		{{ID: "s1", CompanyName: "Acme", Quantity: 2}},
		{{ID: "s2", CompanyName: "Zen", Quantity: 5}},
	}
	var call int
	client := &inventorytest.Fake{
		TodaySalesFunc: func(ctx context.Context) ([]models.TransactionRecord, error) {
			rows := responses[call]
			call++
			return rows, nil
		},
	}
	svc := NewService(client, nil)

	assert.NoError(t, svc.RefreshToday(context.Background()))
	assert.Len(t, svc.TodaySales(), 1)
	assert.Equal(t, "s1", svc.TodaySales()[0].ID)

	assert.NoError(t, svc.RefreshToday(context.Background()))
	today := svc.TodaySales()
	assert.Len(t, today, 1)
	assert.Equal(t, "s2", today[0].ID)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)

	// A slow fetch claims its token, then a newer fetch begins and commits.
	slow := svc.begin(sliceToday)
	fresh := svc.begin(sliceToday)

	committed := svc.commit(sliceToday, fresh, func() {
		svc.today = []models.TransactionRecord{{ID: "fresh"}}
	})
	assert.True(t, committed)

	committed = svc.commit(sliceToday, slow, func() {
		svc.today = []models.TransactionRecord{{ID: "stale"}}
	})
	assert.False(t, committed)

	today := svc.TodaySales()
	assert.Len(t, today, 1)
	assert.Equal(t, "fresh", today[0].ID)
}

func TestNormalization_AppliesSentinels(t *testing.T) {
	client := &inventorytest.Fake{
		TodaySalesFunc: func(ctx context.Context) ([]models.TransactionRecord, error) {
			return []models.TransactionRecord{{ID: "s1", Quantity: 1}}, nil
		},
		RecentOutflowsFunc: func(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
			assert.Equal(t, 10, limit)
			return []models.TransactionRecord{{ID: "o1", Quantity: 1}}, nil
		},
	}
	svc := NewService(client, nil)

	assert.NoError(t, svc.RefreshToday(context.Background()))
	assert.NoError(t, svc.RefreshRecent(context.Background()))

	sale := svc.TodaySales()[0]
	assert.Equal(t, models.UnknownCompany, sale.CompanyName)
	assert.Equal(t, models.NoValue, sale.ModelNo)
	assert.Equal(t, models.WalkInCustomer, sale.PartyName)

	outflow := svc.RecentOutflows()[0]
	assert.Equal(t, models.NoValue, outflow.PartyName)
}

func TestAppendAndRemoveTemporary(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)

	svc.AppendOptimistic(
		models.TransactionRecord{ID: TempIDPrefix + "1", Quantity: 3},
		models.TransactionRecord{ID: TempIDPrefix + "1_outflow", Quantity: 3},
	)

	assert.Len(t, svc.TodaySales(), 1)
	assert.Len(t, svc.RecentOutflows(), 1)

	svc.RemoveTemporary()

	assert.Empty(t, svc.TodaySales())
	assert.Empty(t, svc.RecentOutflows())
}

func TestRemoveTemporary_KeepsRealEntries(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)
	svc.today = []models.TransactionRecord{{ID: "real1"}}
	svc.recent = []models.TransactionRecord{{ID: "real2"}}

	svc.AppendOptimistic(
		models.TransactionRecord{ID: TempIDPrefix + "9"},
		models.TransactionRecord{ID: TempIDPrefix + "9_outflow"},
	)
	svc.RemoveTemporary()

	assert.Equal(t, "real1", svc.TodaySales()[0].ID)
	assert.Equal(t, "real2", svc.RecentOutflows()[0].ID)
}

func TestPurchaseSummary_WindowBounds(t *testing.T) {
	var got inventory.ListOptions
	client := &inventorytest.Fake{
		ListPurchasesFunc: func(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error) {
			got = opts
			return []models.TransactionRecord{
				{CompanyName: "Acme", Quantity: 4, Date: "2024-06-10T09:00:00Z"},
				{CompanyName: "Acme", Quantity: 2, Date: "2024-06-10T11:00:00Z", Notes: "restock"},
			}, nil
		},
	}
	svc := NewService(client, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	}

	rows, err := svc.PurchaseSummary(context.Background(), WindowToday)
	assert.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, 10, got.End.Day())
	assert.Equal(t, 23, got.End.Hour())
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, feedPageLimit, got.Limit)

	assert.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].GroupKey)
	assert.Equal(t, 6, rows[0].TotalQuantity)
	assert.Equal(t, "restock", rows[0].FirstNote)
}

func TestPurchaseSummary_AllWindowHasNoBounds(t *testing.T) {
	var got inventory.ListOptions
	client := &inventorytest.Fake{
		ListPurchasesFunc: func(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error) {
			got = opts
			return nil, nil
		},
	}
	svc := NewService(client, nil)

	_, err := svc.PurchaseSummary(context.Background(), WindowAll)
	assert.NoError(t, err)
	assert.True(t, got.Start.IsZero())
	assert.True(t, got.End.IsZero())
}

func TestReturnSummary_GroupsByCustomer(t *testing.T) {
	client := &inventorytest.Fake{
		ListReturnsFunc: func(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error) {
			return []models.TransactionRecord{
				{CustomerName: "Asha", Quantity: 2},
				{Quantity: 1},
			}, nil
		},
	}
	svc := NewService(client, nil)

	rows, err := svc.ReturnSummary(context.Background(), WindowAll)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	keys := []string{rows[0].GroupKey, rows[1].GroupKey}
	assert.Contains(t, keys, "Asha")
	assert.Contains(t, keys, models.NoValue)
}

func TestCustomerDetailsUsesFullHistoryEndpoint(t *testing.T) {
	var requested string
	client := &inventorytest.Fake{
		CustomerSalesFunc: func(ctx context.Context, name string) (*inventory.CustomerSalesResponse, error) {
			requested = name
			return &inventory.CustomerSalesResponse{
				Sales: []models.TransactionRecord{
					{PartyName: "Asha", CompanyName: "Acme", ModelNo: "M1", TotalSold: 2, Date: "2024-06-01T00:00:00Z"},
					{PartyName: "Asha", CompanyName: "Acme", ModelNo: "M2", TotalSold: 3, Date: "2023-01-15T00:00:00Z"},
				},
				TotalTransactions: 9,
				TotalItems:        40,
				FirstPurchase:     "2021-03-05T00:00:00Z",
				LastPurchase:      "2024-06-01T00:00:00Z",
			}, nil
		},
	}
	svc := NewService(client, nil)

	summary, err := svc.CustomerDetails(context.Background(), "Asha")
	assert.NoError(t, err)
	assert.Equal(t, "Asha", requested)

	// Totals and purchase bounds are the server's, spanning the whole
	// history, not recomputed from the returned page of sales.
	assert.Equal(t, 9, summary.TotalTransactions)
	assert.Equal(t, 40, summary.TotalItems)
	assert.Equal(t, 2021, summary.FirstPurchase.Year())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *summary.LastPurchase)

	assert.Len(t, summary.Sales, 2)
	assert.Equal(t, []models.ProductTotal{
		{Product: "Acme | M1", TotalQuantity: 2},
		{Product: "Acme | M2", TotalQuantity: 3},
	}, summary.ProductSummary)
}

func TestCustomerDetailsTolerateMissingBounds(t *testing.T) {
	client := &inventorytest.Fake{
		CustomerSalesFunc: func(ctx context.Context, name string) (*inventory.CustomerSalesResponse, error) {
			return &inventory.CustomerSalesResponse{TotalTransactions: 1}, nil
		},
	}
	svc := NewService(client, nil)

	summary, err := svc.CustomerDetails(context.Background(), "Asha")
	assert.NoError(t, err)
	assert.Nil(t, summary.FirstPurchase)
	assert.Nil(t, summary.LastPurchase)
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
		ok   bool
	}{
		{"", WindowToday, true},
		{"today", WindowToday, true},
		{"monthly", WindowMonthly, true},
		{"all", WindowAll, true},
		{"yearly", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWindow(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
