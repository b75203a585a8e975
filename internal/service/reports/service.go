// Package reports owns the derived report state: the cached sales slices the
// UI surfaces read, and the on-demand aggregation queries for purchase and
// return summaries.
package reports

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"stockdesk/internal/aggregate"
	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
)

// TempIDPrefix marks synthetic records appended optimistically by the outflow
// coordinator. Rollback and reconciliation match on this prefix.
const TempIDPrefix = "temp_"

const feedPageLimit = 1000

// Window selects the date range of a purchase or return report.
type Window string

const (
	WindowToday   Window = "today"
	WindowMonthly Window = "monthly"
	WindowAll     Window = "all"
)

// ParseWindow maps a query-string value onto a Window.
func ParseWindow(s string) (Window, bool) {
	switch Window(s) {
	case WindowToday, WindowMonthly, WindowAll:
		return Window(s), true
	case "":
		return WindowToday, true
	default:
		return "", false
	}
}

func (w Window) options(now time.Time) inventory.ListOptions {
	opts := inventory.ListOptions{Page: 1, Limit: feedPageLimit}
	switch w {
	case WindowToday:
		y, m, d := now.Date()
		opts.Start = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		opts.End = time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	case WindowMonthly:
		y, m, _ := now.Date()
		opts.Start = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		opts.End = opts.Start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	}
	return opts
}

type sliceKey int

const (
	sliceToday sliceKey = iota
	sliceWeekly
	sliceDaily
	sliceRecent
)

// Service caches the sales state slices and computes report projections.
// Every refresh replaces its slice wholesale; a fetch that has been superseded
// by a newer one for the same slice is discarded instead of clobbering state.
type Service struct {
	client inventory.Client
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	seq    map[sliceKey]uint64
	today  []models.TransactionRecord
	weekly []models.TransactionRecord
	daily  []models.DailySales
	recent []models.TransactionRecord
}

// NewService wires a reports service instance.
func NewService(client inventory.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		logger: logger,
		now:    time.Now,
		seq:    make(map[sliceKey]uint64),
	}
}

// begin claims a fetch token for the slice. A later begin for the same slice
// invalidates this token, so slow superseded responses are dropped on commit.
func (s *Service) begin(key sliceKey) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[key]++
	return s.seq[key]
}

func (s *Service) commit(key sliceKey, token uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq[key] {
		s.logger.Debug("discarding stale feed response", zap.Int("slice", int(key)))
		return false
	}
	apply()
	return true
}

// RefreshToday replaces the today's-sales slice from the authoritative feed.
func (s *Service) RefreshToday(ctx context.Context) error {
	token := s.begin(sliceToday)
	rows, err := s.client.TodaySales(ctx)
	if err != nil {
		return err
	}
	normalized := normalizeSales(rows)
	s.commit(sliceToday, token, func() { s.today = normalized })
	return nil
}

// RefreshWeekly replaces the weekly-sales slice.
func (s *Service) RefreshWeekly(ctx context.Context) error {
	token := s.begin(sliceWeekly)
	rows, err := s.client.WeeklySales(ctx)
	if err != nil {
		return err
	}
	normalized := normalizeSales(rows)
	s.commit(sliceWeekly, token, func() { s.weekly = normalized })
	return nil
}

// RefreshDaily replaces the per-day sales rollup.
func (s *Service) RefreshDaily(ctx context.Context) error {
	token := s.begin(sliceDaily)
	rows, err := s.client.DailySalesReport(ctx)
	if err != nil {
		return err
	}
	s.commit(sliceDaily, token, func() { s.daily = rows })
	return nil
}

// RefreshRecent replaces the recent-outflows slice.
func (s *Service) RefreshRecent(ctx context.Context) error {
	token := s.begin(sliceRecent)
	rows, err := s.client.RecentOutflows(ctx, 10)
	if err != nil {
		return err
	}
	normalized := normalizeOutflows(rows)
	s.commit(sliceRecent, token, func() { s.recent = normalized })
	return nil
}

// RefreshAll warms every cached slice. Partial failures are joined so the
// caller can log them without losing the slices that did load.
func (s *Service) RefreshAll(ctx context.Context) error {
	return errors.Join(
		s.RefreshToday(ctx),
		s.RefreshWeekly(ctx),
		s.RefreshDaily(ctx),
		s.RefreshRecent(ctx),
	)
}

// TodaySales returns a copy of the cached today's-sales slice.
func (s *Service) TodaySales() []models.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TransactionRecord(nil), s.today...)
}

// WeeklySales returns a copy of the cached weekly-sales slice.
func (s *Service) WeeklySales() []models.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TransactionRecord(nil), s.weekly...)
}

// DailySales returns a copy of the cached per-day rollup.
func (s *Service) DailySales() []models.DailySales {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DailySales(nil), s.daily...)
}

// RecentOutflows returns a copy of the cached recent stock reductions.
func (s *Service) RecentOutflows() []models.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TransactionRecord(nil), s.recent...)
}

// AppendOptimistic adds the coordinator's synthetic entries: the sale at the
// end of today's list, the outflow at the head of the recent list, matching
// where the server feeds would place them.
func (s *Service) AppendOptimistic(sale, outflow models.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = append(s.today, sale)
	s.recent = append([]models.TransactionRecord{outflow}, s.recent...)
}

// RemoveTemporary strips every synthetic entry from every slice it could have
// been added to, restoring pre-attempt state.
func (s *Service) RemoveTemporary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = dropTemporary(s.today)
	s.recent = dropTemporary(s.recent)
}

func dropTemporary(records []models.TransactionRecord) []models.TransactionRecord {
	kept := records[:0]
	for _, r := range records {
		if len(r.ID) >= len(TempIDPrefix) && r.ID[:len(TempIDPrefix)] == TempIDPrefix {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// PurchaseSummary fetches the purchases for the window and groups them by
// company.
func (s *Service) PurchaseSummary(ctx context.Context, w Window) ([]models.SummaryRow, error) {
	records, err := s.client.ListPurchases(ctx, w.options(s.now()))
	if err != nil {
		return nil, err
	}
	return aggregate.Summarize(records, aggregate.CompanyKey), nil
}

// PurchaseDetail drills into one company's purchases, grouped per product.
func (s *Service) PurchaseDetail(ctx context.Context, w Window, company string) ([]models.ProductTotal, error) {
	records, err := s.client.ListPurchases(ctx, w.options(s.now()))
	if err != nil {
		return nil, err
	}
	return aggregate.DetailByProduct(records, company, aggregate.CompanyKey), nil
}

// ReturnSummary fetches the returns for the window and groups them by
// customer.
func (s *Service) ReturnSummary(ctx context.Context, w Window) ([]models.SummaryRow, error) {
	records, err := s.client.ListReturns(ctx, w.options(s.now()))
	if err != nil {
		return nil, err
	}
	return aggregate.Summarize(records, aggregate.CustomerKey), nil
}

// ReturnDetail drills into one customer's returns, grouped per product.
func (s *Service) ReturnDetail(ctx context.Context, w Window, customer string) ([]models.ProductTotal, error) {
	records, err := s.client.ListReturns(ctx, w.options(s.now()))
	if err != nil {
		return nil, err
	}
	return aggregate.DetailByProduct(records, customer, aggregate.CustomerKey), nil
}

// CustomerDetails builds the drill-down view for one customer from the
// dedicated full-history endpoint. The totals and purchase bounds come
// server-computed over the customer's entire record; only the per-product
// rollup is derived locally from the returned sales.
func (s *Service) CustomerDetails(ctx context.Context, name string) (models.CustomerSummary, error) {
	res, err := s.client.CustomerSales(ctx, name)
	if err != nil {
		return models.CustomerSummary{}, err
	}

	sales := normalizeSales(res.Sales)
	summary := models.CustomerSummary{
		CustomerName:      name,
		TotalTransactions: res.TotalTransactions,
		TotalItems:        res.TotalItems,
		Sales:             sales,
		ProductSummary:    aggregate.ProductTotals(sales),
	}
	if ts, ok := models.ParseTimestamp(res.FirstPurchase); ok {
		summary.FirstPurchase = &ts
	}
	if ts, ok := models.ParseTimestamp(res.LastPurchase); ok {
		summary.LastPurchase = &ts
	}
	return summary, nil
}

func normalizeSales(records []models.TransactionRecord) []models.TransactionRecord {
	out := make([]models.TransactionRecord, len(records))
	for i, r := range records {
		if r.CompanyName == "" {
			r.CompanyName = models.UnknownCompany
		}
		if r.ModelNo == "" {
			r.ModelNo = models.NoValue
		}
		if r.PartyName == "" {
			r.PartyName = models.WalkInCustomer
		}
		out[i] = r
	}
	return out
}

func normalizeOutflows(records []models.TransactionRecord) []models.TransactionRecord {
	out := make([]models.TransactionRecord, len(records))
	for i, r := range records {
		if r.CompanyName == "" {
			r.CompanyName = models.UnknownCompany
		}
		if r.ModelNo == "" {
			r.ModelNo = models.NoValue
		}
		if r.PartyName == "" {
			r.PartyName = models.NoValue
		}
		out[i] = r
	}
	return out
}
