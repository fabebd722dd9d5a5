// Package config provides functionality for loading, saving, and managing
// console configuration settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"hompulse/console/internal/model"
)

// DefaultPath is the config file location used when no --config flag is given
const DefaultPath = "./data/config.json"

// Default returns the configuration written on first run
func Default() *model.Config {
	return &model.Config{
		APIBaseURL:        "http://localhost:8000/api/v1",
		RequestTimeout:    "30s",
		RequestsPerSecond: 10,
		RequestBurst:      5,
		DatabaseDir:       "./data",
		DatabaseFile:      "hompulse.db",
		LogFolder:         "./logs",
		CommandLog:        "commands.log",
		ErrorLog:          "errors.log",
		InfoLog:           "info.log",
		LogLevel:          "info",
		HistoryFile:       "./data/history",
		HierarchyFile:     "",
		MasterCacheTTL:    "5m",
		SessionTimeout:    "30m",
		UseColor:          true,
		AdminRoleID:       1,
		PartnerPathPrefix: "partners",
	}
}

// envOverrides lists the variables that override file settings.
// Values are strings so that unset variables can be told apart from zero values.
type envOverrides struct {
	APIBaseURL        string `env:"HOMPULSE_API_URL"`
	RequestTimeout    string `env:"HOMPULSE_REQUEST_TIMEOUT"`
	RequestsPerSecond string `env:"HOMPULSE_REQUESTS_PER_SECOND"`
	DatabaseDir       string `env:"HOMPULSE_DATABASE_DIR"`
	LogFolder         string `env:"HOMPULSE_LOG_FOLDER"`
	LogLevel          string `env:"HOMPULSE_LOG_LEVEL"`
	HierarchyFile     string `env:"HOMPULSE_HIERARCHY_FILE"`
	UseColor          string `env:"HOMPULSE_USE_COLOR"`
	AdminRoleID       string `env:"HOMPULSE_ADMIN_ROLE_ID"`
}

// Load reads the configuration from path, creating a default file if none exists.
// Missing fields are back-filled from the defaults and the file is re-saved.
// Environment overrides are applied last and never written back.
func Load(path string) (*model.Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// Ensure the data directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var cfg *model.Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		cfg = &model.Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if backfill(cfg) {
			if err := Save(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to save updated config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as indented JSON
func Save(path string, cfg *model.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the duration fields and numeric limits
func Validate(cfg *model.Config) error {
	for name, value := range map[string]string{
		"request_timeout":  cfg.RequestTimeout,
		"master_cache_ttl": cfg.MasterCacheTTL,
		"session_timeout":  cfg.SessionTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}
	if cfg.RequestsPerSecond < 0 || cfg.RequestBurst < 0 {
		return fmt.Errorf("request rate settings must not be negative")
	}
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	return nil
}

// Duration parses a duration field already checked by Validate
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// backfill fills empty fields with defaults and reports whether anything changed
func backfill(cfg *model.Config) bool {
	def := Default()
	changed := false
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
			changed = true
		}
	}
	fill(&cfg.APIBaseURL, def.APIBaseURL)
	fill(&cfg.RequestTimeout, def.RequestTimeout)
	fill(&cfg.DatabaseDir, def.DatabaseDir)
	fill(&cfg.DatabaseFile, def.DatabaseFile)
	fill(&cfg.LogFolder, def.LogFolder)
	fill(&cfg.CommandLog, def.CommandLog)
	fill(&cfg.ErrorLog, def.ErrorLog)
	fill(&cfg.InfoLog, def.InfoLog)
	fill(&cfg.LogLevel, def.LogLevel)
	fill(&cfg.HistoryFile, def.HistoryFile)
	fill(&cfg.MasterCacheTTL, def.MasterCacheTTL)
	fill(&cfg.SessionTimeout, def.SessionTimeout)
	fill(&cfg.PartnerPathPrefix, def.PartnerPathPrefix)
	if cfg.AdminRoleID == 0 {
		cfg.AdminRoleID = def.AdminRoleID
		changed = true
	}
	return changed
}

// applyEnv loads .env from the working directory and applies HOMPULSE_* variables
func applyEnv(cfg *model.Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("failed to decode environment: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.APIBaseURL, env.APIBaseURL)
	set(&cfg.RequestTimeout, env.RequestTimeout)
	set(&cfg.DatabaseDir, env.DatabaseDir)
	set(&cfg.LogFolder, env.LogFolder)
	set(&cfg.LogLevel, env.LogLevel)
	set(&cfg.HierarchyFile, env.HierarchyFile)

	if env.RequestsPerSecond != "" {
		n, err := strconv.Atoi(env.RequestsPerSecond)
		if err != nil {
			return fmt.Errorf("invalid HOMPULSE_REQUESTS_PER_SECOND: %w", err)
		}
		cfg.RequestsPerSecond = n
	}
	if env.UseColor != "" {
		b, err := strconv.ParseBool(env.UseColor)
		if err != nil {
			return fmt.Errorf("invalid HOMPULSE_USE_COLOR: %w", err)
		}
		cfg.UseColor = b
	}
	if env.AdminRoleID != "" {
		n, err := strconv.Atoi(env.AdminRoleID)
		if err != nil {
			return fmt.Errorf("invalid HOMPULSE_ADMIN_ROLE_ID: %w", err)
		}
		cfg.AdminRoleID = n
	}
	return nil
}
