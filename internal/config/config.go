package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Inventory InventoryConfig
	Alerts    AlertsConfig
	Outflow   OutflowConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// InventoryConfig carries the connection settings for the remote inventory
// REST API. The token is injected here so no component reads credentials from
// ambient global state.
type InventoryConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// AlertsConfig controls the low-stock polling loop.
type AlertsConfig struct {
	PollInterval time.Duration
}

// OutflowConfig tunes the stock-mutation coordinator.
type OutflowConfig struct {
	// SettleDelay is how long after a successful mutation the authoritative
	// refetch runs to supersede optimistic entries.
	SettleDelay time.Duration
}

// ReportingConfig holds scheduled-export settings.
type ReportingConfig struct {
	ExportCron string
	Timezone   string
}

// SheetsConfig contains configuration required to push exported summaries to
// Google Sheets. Leaving CredentialsPath empty disables the export job.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SummaryRange    string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Inventory: InventoryConfig{
			BaseURL: getenvWithDefault("INVENTORY_API_URL", "http://localhost:5000/api"),
			Token:   os.Getenv("INVENTORY_API_TOKEN"),
			Timeout: getenvDuration("INVENTORY_API_TIMEOUT", 10*time.Second),
		},
		Alerts: AlertsConfig{
			PollInterval: getenvDuration("LOW_STOCK_POLL_INTERVAL", 2*time.Second),
		},
		Outflow: OutflowConfig{
			SettleDelay: getenvDuration("OUTFLOW_SETTLE_DELAY", time.Second),
		},
		Reporting: ReportingConfig{
			ExportCron: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:   getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
			SummaryRange:    getenvWithDefault("GOOGLE_SHEET_SUMMARY_RANGE", "Purchases!A:D"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Inventory.BaseURL == "" {
		return errors.New("INVENTORY_API_URL must be provided")
	}

	if c.Inventory.Timeout <= 0 {
		return errors.New("INVENTORY_API_TIMEOUT must be positive")
	}

	if c.Alerts.PollInterval <= 0 {
		return errors.New("LOW_STOCK_POLL_INTERVAL must be positive")
	}

	if c.Outflow.SettleDelay <= 0 {
		return errors.New("OUTFLOW_SETTLE_DELAY must be positive")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_EXPORT_ID must be provided when sheets export is enabled")
	}

	if c.Sheets.CredentialsPath != "" && c.Reporting.ExportCron == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided when sheets export is enabled")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
