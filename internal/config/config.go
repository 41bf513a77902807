// Package config loads the collector configuration: a JSON file in the
// .cobertura directory plus .env / environment overrides for the values that
// differ between deployments.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backend selectors for the record caches and the checkpoint.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Defaults for the fields that rarely change between deployments.
const (
	DefaultAPIBaseURL = "https://api.bling.com.br/Api/v3"
	DefaultSheetRange = "Dados Bling!A1:G"
	DefaultDepositID  = "14088231094"
	DefaultCategoryID = 12269489770
)

// Config is the flat collector configuration.
type Config struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetRange    string `json:"sheet_range"`
	SecretName    string `json:"secret_name"`
	APIBaseURL    string `json:"api_base_url"`
	DepositID     string `json:"deposit_id"`
	CategoryID    int64  `json:"category_id"`
	// Bucket is the checkpoint mirror bucket; empty disables the mirror.
	Bucket string `json:"bucket,omitempty"`
	// GoogleKeyFile is the service account key for Sheets; empty uses
	// application default credentials.
	GoogleKeyFile string `json:"google_key_file,omitempty"`
	// DataDir holds the cache files, checkpoint and sqlite database.
	DataDir string `json:"data_dir,omitempty"`
	// Storage selects the cache/checkpoint backend: "json" or "sqlite".
	Storage string `json:"storage,omitempty"`
}

// DefaultConfig returns a config with every defaultable field filled in,
// rooted at dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		SheetRange: DefaultSheetRange,
		APIBaseURL: DefaultAPIBaseURL,
		DepositID:  DefaultDepositID,
		CategoryID: DefaultCategoryID,
		DataDir:    filepath.Join(dir, ".cobertura"),
		Storage:    StorageJSON,
	}
}

// LoadConfig reads .cobertura/config.json from the specified directory,
// loads a .env file when present, and applies environment overrides.
// Returns an error if no config is found or required fields are missing.
func LoadConfig(dir string) (*Config, error) {
	// Missing .env is fine; variables may come from the environment.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	path := filepath.Join(dir, ".cobertura", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig(dir)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults(dir)

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("config is missing spreadsheet_id")
	}
	if cfg.SecretName == "" {
		return nil, fmt.Errorf("config is missing secret_name")
	}
	if cfg.Storage != StorageJSON && cfg.Storage != StorageSQLite {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	return cfg, nil
}

// SaveConfig writes config.json to the directory's .cobertura subdir.
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".cobertura")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .cobertura dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DBPath returns the sqlite database path for the sqlite storage backend.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "cobertura.db")
}

func (c *Config) applyEnv() {
	c.SpreadsheetID = getEnv("COBERTURA_SPREADSHEET_ID", c.SpreadsheetID)
	c.SheetRange = getEnv("COBERTURA_SHEET_RANGE", c.SheetRange)
	c.SecretName = getEnv("COBERTURA_SECRET_NAME", c.SecretName)
	c.APIBaseURL = getEnv("COBERTURA_API_BASE_URL", c.APIBaseURL)
	c.DepositID = getEnv("COBERTURA_DEPOSIT_ID", c.DepositID)
	c.Bucket = getEnv("COBERTURA_BUCKET", c.Bucket)
	c.GoogleKeyFile = getEnv("COBERTURA_GOOGLE_KEY_FILE", c.GoogleKeyFile)
	c.Storage = getEnv("COBERTURA_STORAGE", c.Storage)
	if v := os.Getenv("COBERTURA_CATEGORY_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.CategoryID = id
		}
	}
}

func (c *Config) applyDefaults(dir string) {
	def := DefaultConfig(dir)
	if c.SheetRange == "" {
		c.SheetRange = def.SheetRange
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = def.APIBaseURL
	}
	if c.DepositID == "" {
		c.DepositID = def.DepositID
	}
	if c.CategoryID == 0 {
		c.CategoryID = def.CategoryID
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Storage == "" {
		c.Storage = def.Storage
	}
}

// getEnv gets an environment variable with fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
