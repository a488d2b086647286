package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. FINSMART_STORAGE_BACKEND.
const EnvPrefix = "FINSMART"

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendGCS      = "gcs"
	BackendBigQuery = "bigquery"
)

// Config holds every setting the finsmart binaries read.
type Config struct {
	// HTTP server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Persistence
	StorageBackend  string
	GCSBucket       string
	GCSPrefix       string
	BigQueryProject string
	BigQueryDataset string
	GuestFile       string

	// Mirror queue
	MirrorBuffer int

	// Authentication; an empty key selects the static development provider.
	AuthAPIKey string

	// Advice
	GeminiAPIKey    string
	GeminiModel     string
	AdviceLanguage  string
	DisplayCurrency string

	// Notion export
	NotionToken                string
	NotionTransactionsDatabase string
	NotionAccountsDatabase     string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.gcs.prefix", "finsmart")
	v.SetDefault("storage.bigquery.dataset", "finsmart")
	v.SetDefault("storage.guest_file", ".finsmart/guest.json")
	v.SetDefault("mirror.buffer", 64)
	v.SetDefault("advisor.model", "gemini-2.5-flash")
	v.SetDefault("advisor.language", "Traditional Chinese")
	v.SetDefault("advisor.currency", "TWD")
}

// Load reads .env (if present), the environment and an optional YAML file
// into a Config. An empty file path means environment and defaults only.
func Load(v *viper.Viper, file string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", file, err)
		}
	}

	return FromViper(v), nil
}

// FromViper builds a Config from values already registered on v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),

		LogLevel:  v.GetString("logging.level"),
		LogFormat: v.GetString("logging.format"),

		StorageBackend:  v.GetString("storage.backend"),
		GCSBucket:       v.GetString("storage.gcs.bucket"),
		GCSPrefix:       v.GetString("storage.gcs.prefix"),
		BigQueryProject: v.GetString("storage.bigquery.project"),
		BigQueryDataset: v.GetString("storage.bigquery.dataset"),
		GuestFile:       v.GetString("storage.guest_file"),

		MirrorBuffer: v.GetInt("mirror.buffer"),

		AuthAPIKey: v.GetString("auth.api_key"),

		GeminiAPIKey:    v.GetString("advisor.api_key"),
		GeminiModel:     v.GetString("advisor.model"),
		AdviceLanguage:  v.GetString("advisor.language"),
		DisplayCurrency: v.GetString("advisor.currency"),

		NotionToken:                v.GetString("notion.token"),
		NotionTransactionsDatabase: v.GetString("notion.transactions_database"),
		NotionAccountsDatabase:     v.GetString("notion.accounts_database"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	backends := []string{BackendMemory, BackendGCS, BackendBigQuery}
	if !slices.Contains(backends, c.StorageBackend) {
		errs = append(errs, fmt.Errorf("invalid storage backend '%s': must be one of %v", c.StorageBackend, backends))
	}

	switch c.StorageBackend {
	case BackendGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS bucket cannot be empty when using gcs backend"))
		}
	case BackendBigQuery:
		if c.BigQueryProject == "" {
			errs = append(errs, errors.New("BigQuery project cannot be empty when using bigquery backend"))
		}
		if c.BigQueryDataset == "" {
			errs = append(errs, errors.New("BigQuery dataset cannot be empty when using bigquery backend"))
		}
	}

	if c.GuestFile == "" {
		errs = append(errs, errors.New("guest file path cannot be empty"))
	}
	if c.MirrorBuffer < 1 {
		errs = append(errs, fmt.Errorf("invalid mirror buffer %d: must be at least 1", c.MirrorBuffer))
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// NotionEnabled reports whether enough Notion settings are present to export.
func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && (c.NotionTransactionsDatabase != "" || c.NotionAccountsDatabase != "")
}
