package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"stockdesk/internal/config"
	"stockdesk/internal/export"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/scheduler"
	"stockdesk/internal/server/handlers"
	"stockdesk/internal/server/router"
	outflowsvc "stockdesk/internal/service/outflow"
	purchasesvc "stockdesk/internal/service/purchases"
	reportsvc "stockdesk/internal/service/reports"
	"stockdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	client := inventory.NewClient(cfg.Inventory)

	reportsSvc := reportsvc.NewService(client, baseLogger.Named("svc.reports"))
	coordinator := outflowsvc.NewCoordinator(client, reportsSvc, cfg.Outflow, baseLogger.Named("svc.outflow"))
	cartSvc := purchasesvc.NewService(client, baseLogger.Named("svc.purchases"))

	// The Sheets export target is optional; without credentials the daily
	// export job simply isn't scheduled.
	var exporter *export.SheetsWriter
	if cfg.Sheets.CredentialsPath != "" {
		exporter, err = export.NewSheetsWriter(context.Background(), cfg.Sheets, baseLogger.Named("export.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets writer", zap.Error(err))
		}
		baseLogger.Info("sheets export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, daily export disabled")
	}

	h := router.Handlers{
		Reports: handlers.NewReportsHandler(reportsSvc, baseLogger.Named("handlers.reports")),
		Catalog: nil,
		Outflow: handlers.NewOutflowHandler(coordinator, client, baseLogger.Named("handlers.outflow")),
		Cart:    handlers.NewCartHandler(cartSvc, baseLogger.Named("handlers.cart")),
	}

	sched := scheduler.NewScheduler(*cfg, client, reportsSvc, exporter, baseLogger.Named("scheduler"))
	h.Catalog = handlers.NewCatalogHandler(client, sched, baseLogger.Named("handlers.catalog"))

	engine := router.New(h, baseLogger.Named("router"))

	sched.Start()
	defer sched.Stop()

	// Warm the report caches so the first request is served from data.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := reportsSvc.RefreshAll(warmCtx); err != nil {
		baseLogger.Warn("initial report refresh incomplete", zap.Error(err))
	}
	warmCancel()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
