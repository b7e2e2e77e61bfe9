// Package config loads runtime configuration from the environment. CLI flags
// override whatever the environment provides; defaults keep a bare local run
// working without setup.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Store  StoreConfig
	Ledger LedgerConfig
	Export ExportConfig
	AI     AIConfig
}

type StoreConfig struct {
	// Path of the persisted JSON store document.
	Path string
	// BackupURI is an optional gs://bucket/object prefix for pre-run
	// snapshots of the store file.
	BackupURI string
}

type LedgerConfig struct {
	Token     string
	BaseURL   string
	BudgetID  string
	AccountID string
}

type ExportConfig struct {
	Enabled   bool
	ProjectID string
	Dataset   string
	Table     string
}

type AIConfig struct {
	Model string
}

func Load() *Config {
	return &Config{
		Store: StoreConfig{
			Path:      getEnv("AMZNSYNC_STORE", "transactions.json"),
			BackupURI: getEnv("AMZNSYNC_STORE_BACKUP_URI", ""),
		},
		Ledger: LedgerConfig{
			Token:     getEnv("AMZNSYNC_LEDGER_TOKEN", ""),
			BaseURL:   getEnv("AMZNSYNC_LEDGER_BASE_URL", ""),
			BudgetID:  getEnv("AMZNSYNC_BUDGET_ID", ""),
			AccountID: getEnv("AMZNSYNC_ACCOUNT_ID", ""),
		},
		Export: ExportConfig{
			Enabled:   getBoolEnv("AMZNSYNC_BQ_EXPORT", false),
			ProjectID: getEnv("AMZNSYNC_BQ_PROJECT", ""),
			Dataset:   getEnv("AMZNSYNC_BQ_DATASET", "finance"),
			Table:     getEnv("AMZNSYNC_BQ_TABLE", "amazon_transactions"),
		},
		AI: AIConfig{
			Model: getEnv("AMZNSYNC_AI_MODEL", "gemini-2.5-flash"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}
