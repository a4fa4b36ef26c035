package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App     AppConfig
	API     APIConfig
	Lists   ListConfig
	Storage StorageConfig
	Logger  LoggerConfig
}

// AppConfig controls application level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Version               string
	DebounceMillis        int
	SummaryRefreshMinutes int
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// ListConfig holds per-view page sizes.
type ListConfig struct {
	TicketPageSize   int
	MaterialPageSize int
}

// StorageConfig locates persisted client state.
type StorageConfig struct {
	TokenPath string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	Path  string
}

// fileConfig is the optional YAML overlay. Only set fields override
// the environment-derived values.
type fileConfig struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Storage struct {
		TokenPath string `yaml:"token_path"`
	} `yaml:"storage"`
	Logger struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"logger"`
}

const (
	// The development base URL assumes the Django server (or its dev
	// proxy) on localhost; production points at the public origin.
	devBaseURL  = "http://127.0.0.1:8000/api"
	prodBaseURL = "https://api.trippalholiday.my/api"
)

// Load reads configuration from environment variables, applying
// defaults where possible, then overlays the optional YAML file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		if env == "production" {
			baseURL = prodBaseURL
		} else {
			baseURL = devBaseURL
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "trippal-admin-console"),
			Env:                   env,
			Version:               getEnv("APP_VERSION", "dev"),
			DebounceMillis:        getEnvAsInt("FILTER_DEBOUNCE_MILLIS", 300),
			SummaryRefreshMinutes: getEnvAsInt("SUMMARY_REFRESH_MINUTES", 5),
		},
		API: APIConfig{
			BaseURL:        baseURL,
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 10),
		},
		Lists: ListConfig{
			TicketPageSize:   getEnvAsInt("TICKET_PAGE_SIZE", 10),
			MaterialPageSize: getEnvAsInt("MATERIAL_PAGE_SIZE", 12),
		},
		Storage: StorageConfig{
			TokenPath: getEnv("TOKEN_STORE_PATH", defaultTokenPath()),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Path:  os.Getenv("LOG_PATH"),
		},
	}

	if err := applyFile(cfg, getEnv("CONFIG_FILE", defaultConfigPath())); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays values from a YAML config file if one exists.
func applyFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.API.BaseURL != "" {
		cfg.API.BaseURL = fc.API.BaseURL
	}
	if fc.API.TimeoutSeconds > 0 {
		cfg.API.TimeoutSeconds = fc.API.TimeoutSeconds
	}
	if fc.Storage.TokenPath != "" {
		cfg.Storage.TokenPath = fc.Storage.TokenPath
	}
	if fc.Logger.Level != "" {
		cfg.Logger.Level = fc.Logger.Level
	}
	if fc.Logger.Path != "" {
		cfg.Logger.Path = fc.Logger.Path
	}
	return nil
}

// RequestTimeout returns the per-request timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Debounce returns the quiet period applied to filter edits.
func (a AppConfig) Debounce() time.Duration {
	if a.DebounceMillis <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(a.DebounceMillis) * time.Millisecond
}

// SummaryRefreshInterval returns the dashboard refresh period.
func (a AppConfig) SummaryRefreshInterval() time.Duration {
	if a.SummaryRefreshMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.SummaryRefreshMinutes) * time.Minute
}

func defaultTokenPath() string {
	return filepath.Join(userConfigDir(), "tokens.json")
}

func defaultConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func userConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "trippal-console")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
