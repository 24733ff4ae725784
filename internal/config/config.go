// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything cmd/server needs to start.
type Config struct {
	Port          string
	DatabaseURL   string
	DBName        string
	RedisURL      string
	CORSOrigins   []string
	LLMProvider   string
	LLMModel      string
	LLMAPIKey     string
	LLMBaseURL    string
	LLMTimeout    time.Duration
	MigrationsDir string
	LogLevel      slog.Level
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv paths. Missing files are skipped.
func LoadFiles(envFiles ...string) (*Config, error) {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	v := viper.New()
	v.SetDefault("port", "8001")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("llm_provider", "openai")
	v.SetDefault("llm_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm_timeout", "120s")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("log_level", "info")

	for _, key := range []string{
		"port", "database_url", "db_name", "redis_url", "cors_origins",
		"llm_provider", "llm_model", "llm_base_url", "llm_timeout",
		"migrations_dir", "log_level",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	// The first name that is set wins.
	if err := v.BindEnv("llm_api_key", "LLM_API_KEY", "EMERGENT_LLM_KEY"); err != nil {
		return nil, fmt.Errorf("binding llm_api_key: %w", err)
	}

	cfg := &Config{
		Port:          strings.TrimSpace(v.GetString("port")),
		DatabaseURL:   strings.TrimSpace(v.GetString("database_url")),
		DBName:        strings.TrimSpace(v.GetString("db_name")),
		RedisURL:      strings.TrimSpace(v.GetString("redis_url")),
		CORSOrigins:   splitList(v.GetString("cors_origins")),
		LLMProvider:   strings.ToLower(strings.TrimSpace(v.GetString("llm_provider"))),
		LLMModel:      strings.TrimSpace(v.GetString("llm_model")),
		LLMAPIKey:     strings.TrimSpace(v.GetString("llm_api_key")),
		LLMBaseURL:    strings.TrimSpace(v.GetString("llm_base_url")),
		MigrationsDir: v.GetString("migrations_dir"),
	}

	timeout, err := time.ParseDuration(v.GetString("llm_timeout"))
	if err != nil {
		return nil, fmt.Errorf("parsing LLM_TIMEOUT: %w", err)
	}
	cfg.LLMTimeout = timeout

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if c.LLMAPIKey == "" {
		missing = append(missing, "LLM_API_KEY (or EMERGENT_LLM_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
