package commands

import (
	"database/sql"
	"fmt"

	"github.com/boilerbrain-ai/boilerbrain/internal/config"
	"github.com/boilerbrain-ai/boilerbrain/internal/llm"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

// loadConfig reads configuration using the --config flag when given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a logger honoring the --verbose flag.
func newLogger(cfg *config.Config) *observability.Logger {
	level := cfg.Observability.LogLevel
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		ServiceName: cfg.Observability.ServiceName,
	})
}

// openDatabase connects to Postgres using the configured DSN.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	return db, nil
}

// newGenerator builds the LLM client from config.
func newGenerator(cfg *config.Config) (*llm.Client, error) {
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.LLM.RequestTimeout,
		MaxRetries:  cfg.LLM.MaxRetries,
		BackoffBase: cfg.LLM.BackoffBase,
	})
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return client, nil
}
