package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"stockdesk/internal/config"
	"stockdesk/internal/domain/models"
	"stockdesk/internal/export"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/service/reports"
)

// Scheduler manages background jobs: the short-interval low-stock poll and
// the optional daily purchase-summary export to Google Sheets.
type Scheduler struct {
	cron       *cron.Cron
	client     inventory.Client
	reportsSvc *reports.Service
	exporter   *export.SheetsWriter
	cfg        config.Config
	logger     *zap.Logger

	mu     sync.RWMutex
	alerts []models.Product
}

// NewScheduler creates a new scheduler instance. exporter may be nil, in
// which case the export job is not registered.
func NewScheduler(cfg config.Config, client inventory.Client, reportsSvc *reports.Service, exporter *export.SheetsWriter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard 5-field cron; the poll
	// interval uses the @every descriptor instead.
	c := cron.New()

	return &Scheduler{
		cron:       c,
		client:     client,
		reportsSvc: reportsSvc,
		exporter:   exporter,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the jobs and starts the cron loop. The low-stock poll runs
// once immediately so Alerts is populated before the first tick.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	spec := fmt.Sprintf("@every %s", s.cfg.Alerts.PollInterval)
	if _, err := s.cron.AddFunc(spec, s.pollLowStock); err != nil {
		s.logger.Error("failed to schedule low-stock poll", zap.Error(err))
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.Reporting.ExportCron, s.exportPurchaseSummary); err != nil {
			s.logger.Error("failed to schedule purchase export", zap.Error(err))
		}
	}

	s.pollLowStock()
	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// Alerts returns the most recent low-stock snapshot.
func (s *Scheduler) Alerts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *Scheduler) pollLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	products, err := s.client.LowStock(ctx)
	if err != nil {
		// Keep the last snapshot; a poll failure must not blank alerts.
		s.logger.Warn("low-stock poll failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	previous := len(s.alerts)
	s.alerts = products
	s.mu.Unlock()

	if len(products) != previous {
		s.logger.Info("low-stock alerts changed",
			zap.Int("previous", previous),
			zap.Int("current", len(products)))
	}
}

func (s *Scheduler) exportPurchaseSummary() {
	s.logger.Info("exporting daily purchase summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rows, err := s.reportsSvc.PurchaseSummary(ctx, reports.WindowToday)
	if err != nil {
		s.logger.Error("failed to build purchase summary", zap.Error(err))
		return
	}
	if len(rows) == 0 {
		s.logger.Info("no purchases today, skipping export")
		return
	}

	if err := s.exporter.AppendSummary(ctx, s.cfg.Sheets.SummaryRange, rows); err != nil {
		s.logger.Error("failed to append purchase summary", zap.Error(err))
		return
	}
	s.logger.Info("purchase summary exported", zap.Int("rows", len(rows)))
}
