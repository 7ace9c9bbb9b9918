// Package config provides unified configuration loading for BoilerBrain.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for BoilerBrain services.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	LLM           LLMConfig           `yaml:"llm"`
	Ingestion     IngestionConfig     `yaml:"ingestion"`
	Dataset       DatasetConfig       `yaml:"dataset"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds lookup-cache settings.
type CacheConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// LLMConfig holds external generation API settings.
type LLMConfig struct {
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	BaseURL        string        `yaml:"base_url"`
	MaxRetries     int           `yaml:"max_retries"`
	BackoffBase    time.Duration `yaml:"backoff_base"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// IngestionConfig holds manual-ingestion pipeline settings.
type IngestionConfig struct {
	LedgerPath       string        `yaml:"ledger_path"`
	DownloadDir      string        `yaml:"download_dir"`
	MinDocumentBytes int64         `yaml:"min_document_bytes"`
	MaxDocumentBytes int64         `yaml:"max_document_bytes"`
	MinTextLength    int           `yaml:"min_text_length"`
	BatchSize        int           `yaml:"batch_size"`
	CallInterval     time.Duration `yaml:"call_interval"`
	BatchCooldown    time.Duration `yaml:"batch_cooldown"`
}

// DatasetConfig holds fine-tuning export settings.
type DatasetConfig struct {
	TrainPath string `yaml:"train_path"`
	EvalPath  string `yaml:"eval_path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             3205,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    10 * time.Minute,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		LLM: LLMConfig{
			Model:          "google/gemini-2.5-flash-preview-09-2025",
			BaseURL:        "https://openrouter.ai/api/v1",
			MaxRetries:     3,
			BackoffBase:    5 * time.Second,
			RequestTimeout: 120 * time.Second,
		},
		Ingestion: IngestionConfig{
			LedgerPath:       "boilerbrain-ledger.db",
			DownloadDir:      os.TempDir(),
			MinDocumentBytes: 10 * 1024,
			MaxDocumentBytes: 50 * 1024 * 1024,
			MinTextLength:    500,
			BatchSize:        25,
			CallInterval:     4 * time.Second,
			BatchCooldown:    60 * time.Second,
		},
		Dataset: DatasetConfig{
			TrainPath: "train.jsonl",
			EvalPath:  "eval.jsonl",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "boilerbrain",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}

	if c.Ingestion.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}

	if c.Ingestion.MaxDocumentBytes <= c.Ingestion.MinDocumentBytes {
		return fmt.Errorf("max_document_bytes must exceed min_document_bytes")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("LEDGER_PATH"); v != "" {
		cfg.Ingestion.LedgerPath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
