// Package config provides configuration management for the evaluation
// orchestrator: defaults for evaluation runs, the API server, and
// catalog update sources, loaded via viper from file/env/flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	// Evaluation holds the default RequestConfig values applied when a
	// caller omits a field.
	Evaluation struct {
		Mode                     string  `mapstructure:"mode"`
		TestBudget               int     `mapstructure:"test_budget"`
		WeakThreshold            float64 `mapstructure:"weak_threshold"`
		FocusPercentage          float64 `mapstructure:"focus_percentage"`
		MaxRounds                int     `mapstructure:"max_rounds"`
		StabilityThreshold       float64 `mapstructure:"stability_threshold"`
		Parallelism              int     `mapstructure:"parallelism"`
		PerRequestTimeoutSeconds int     `mapstructure:"per_request_timeout_seconds"`
		OverallTimeoutSeconds    int     `mapstructure:"overall_timeout_seconds"`
	} `mapstructure:"evaluation"`

	// Server holds the task-protocol API server's bind address.
	Server struct {
		ListenAddr string `mapstructure:"listen_addr"`
	} `mapstructure:"server"`

	// CatalogUpdate mirrors catalog.UpdateSources: a primary GitHub
	// release repo plus an optional internal GitLab mirror.
	CatalogUpdate struct {
		GitHubRepo       string `mapstructure:"github_repo"`
		GitLabProject    string `mapstructure:"gitlab_project"`
		GitLabBaseURL    string `mapstructure:"gitlab_base_url"`
		MinCompatible    string `mapstructure:"min_compatible"`
	} `mapstructure:"catalog_update"`

	// Redis is the delivery cache backend.
	Redis struct {
		Addr string `mapstructure:"addr"`
		DB   int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	// Reporting settings for signed report output.
	Reporting struct {
		OutputDir     string `mapstructure:"output_dir"`
		SignReports   bool   `mapstructure:"sign_reports"`
		SigningKeyHex string `mapstructure:"signing_key_hex"`
	} `mapstructure:"reporting"`
}

// DefaultConfig returns the default configuration: the documented
// evaluation defaults and reasonable ambient defaults for everything else.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Evaluation.Mode = "adaptive"
	cfg.Evaluation.TestBudget = 100
	cfg.Evaluation.WeakThreshold = 0.6
	cfg.Evaluation.FocusPercentage = 0.6
	cfg.Evaluation.MaxRounds = 5
	cfg.Evaluation.StabilityThreshold = 0.05
	cfg.Evaluation.Parallelism = 8
	cfg.Evaluation.PerRequestTimeoutSeconds = 30
	cfg.Evaluation.OverallTimeoutSeconds = 300

	cfg.Server.ListenAddr = ":8443"

	cfg.CatalogUpdate.GitHubRepo = "redforge/a2aeval-catalog"
	cfg.CatalogUpdate.MinCompatible = "1.0.0"

	cfg.Redis.Addr = "localhost:6379"

	homeDir, err := os.UserHomeDir()
	if err == nil {
		cfg.Reporting.OutputDir = filepath.Join(homeDir, ".a2aeval", "reports")
	} else {
		cfg.Reporting.OutputDir = "./reports"
	}
	cfg.Reporting.SignReports = false

	return cfg
}

// LoadConfig loads configuration from file and environment variables,
// layered on top of DefaultConfig.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".a2aeval")
	v.SetConfigType("yaml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(homeDir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("A2AEVAL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling config: %w", err)
	}

	if addr := os.Getenv("A2AEVAL_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if key := os.Getenv("A2AEVAL_SIGNING_KEY_HEX"); key != "" {
		cfg.Reporting.SigningKeyHex = key
	}

	return cfg, nil
}

// MinCompatibleVersion parses CatalogUpdate.MinCompatible, returning nil
// (no floor) if it is unset.
func (c *Config) MinCompatibleVersion() (*semver.Version, error) {
	if c.CatalogUpdate.MinCompatible == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(c.CatalogUpdate.MinCompatible)
	if err != nil {
		return nil, fmt.Errorf("config: invalid catalog_update.min_compatible %q: %w", c.CatalogUpdate.MinCompatible, err)
	}
	return v, nil
}

// SaveConfig saves the configuration to the user's home directory.
func SaveConfig(cfg *Config) error {
	v := viper.New()
	v.SetConfigName(".a2aeval")
	v.SetConfigType("yaml")

	v.Set("evaluation", cfg.Evaluation)
	v.Set("server", cfg.Server)
	v.Set("catalog_update", cfg.CatalogUpdate)
	v.Set("redis", cfg.Redis)
	v.Set("reporting.output_dir", cfg.Reporting.OutputDir)
	v.Set("reporting.sign_reports", cfg.Reporting.SignReports)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("config: getting home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".a2aeval.yaml")
	return v.WriteConfigAs(configPath)
}
