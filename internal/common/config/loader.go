// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the base yaml config, merges an environment-specific overlay,
// and applies environment-variable overrides.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if godotenv.Load(p) == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "northwind-agent"
	}
	if cfg.Database.SQL.Driver == "" {
		cfg.Database.SQL.Driver = "sqlite"
	}
	if cfg.Database.SQL.Path == "" {
		cfg.Database.SQL.Path = "data/northwind.sqlite"
	}
	if cfg.Database.SQL.MaxConnections == 0 {
		cfg.Database.SQL.MaxConnections = 10
	}
	if cfg.Database.SQL.MaxIdle == 0 {
		cfg.Database.SQL.MaxIdle = 5
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 30000
	}
	if cfg.GenAI.MaxRetries == 0 {
		cfg.GenAI.MaxRetries = 2
	}
	if cfg.GenAI.MaxTokens == 0 {
		cfg.GenAI.MaxTokens = 1024
	}
	if cfg.Retrieval.Backend == "" {
		cfg.Retrieval.Backend = "local"
	}
	if cfg.Retrieval.DocsDir == "" {
		cfg.Retrieval.DocsDir = "docs"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Workflow.MaxRepairRetries == 0 {
		cfg.Workflow.MaxRepairRetries = 2
	}
	if cfg.Workflow.MaxSteps == 0 {
		cfg.Workflow.MaxSteps = 25
	}
	if cfg.Workflow.ResultTruncation == 0 {
		cfg.Workflow.ResultTruncation = 2000
	}
	if cfg.Workflow.BatchWorkers == 0 {
		cfg.Workflow.BatchWorkers = 4
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	switch cfg.Database.SQL.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported sql driver %q", cfg.Database.SQL.Driver)
	}
	switch cfg.Retrieval.Backend {
	case "local", "elasticsearch":
	default:
		return fmt.Errorf("unsupported retrieval backend %q", cfg.Retrieval.Backend)
	}
	if cfg.Workflow.MaxRepairRetries < 0 {
		return fmt.Errorf("max_repair_retries must be >= 0")
	}
	return nil
}
