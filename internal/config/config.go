package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Ledger  LedgerConfig
	Sheets  SheetsConfig
	Audit   AuditConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds settings for the cart store.
type RedisConfig struct {
	Addr string
}

// LedgerConfig holds settings for the settlement service. An empty BaseURL
// switches the application to the simulated in-process ledger.
type LedgerConfig struct {
	BaseURL        string
	ConfirmTimeout time.Duration
	SimulatedDelay time.Duration
}

// SheetsConfig contains configuration required to interact with Google
// Sheets. Both fields empty disables the audit export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// AuditConfig holds scheduler-related settings.
type AuditConfig struct {
	CronSchedule string
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

	confirmTimeout, err := parseDuration("LEDGER_CONFIRM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	simulatedDelay, err := parseDuration("LEDGER_SIMULATED_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "agritrace"),
		},
		Redis: RedisConfig{
			Addr: getenvWithDefault("REDIS_ADDR", "localhost:6379"),
		},
		Ledger: LedgerConfig{
			BaseURL:        os.Getenv("LEDGER_BASE_URL"),
			ConfirmTimeout: confirmTimeout,
			SimulatedDelay: simulatedDelay,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_AUDIT_ID"),
		},
		Audit: AuditConfig{
			CronSchedule: getenvWithDefault("AUDIT_CRON_SCHEDULE", "0 6 * * *"),
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

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR must be provided")
	}

	if c.Ledger.ConfirmTimeout <= 0 {
		return errors.New("LEDGER_CONFIRM_TIMEOUT must be positive")
	}

	// Sheets export is optional, but partial configuration is a mistake.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_AUDIT_ID must be set together")
	}

	if c.AuditExportEnabled() && c.Audit.CronSchedule == "" {
		return errors.New("AUDIT_CRON_SCHEDULE must be provided")
	}

	return nil
}

// AuditExportEnabled reports whether the Sheets audit export is configured.
func (c *Config) AuditExportEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
