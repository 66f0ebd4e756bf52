// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	GenAI     GenAIConfig     `mapstructure:"genai"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// SQLConfig selects the relational store backing the agent. The sqlite
// driver is the default (read-only Northwind snapshot); postgres is used
// when the dataset lives in a shared server.
type SQLConfig struct {
	Driver         string `mapstructure:"driver"` // "sqlite" or "postgres"
	Path           string `mapstructure:"path"`   // sqlite file
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
}

// DSN returns the driver-appropriate connection string.
func (s SQLConfig) DSN() string {
	if s.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			s.Host, s.Port, s.User, s.Password, s.Database, s.SSLMode,
		)
	}
	// URI mode keeps the snapshot read-only.
	return fmt.Sprintf("file:%s?mode=ro", s.Path)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type RetrievalConfig struct {
	Backend string `mapstructure:"backend"` // "local" or "elasticsearch"
	DocsDir string `mapstructure:"docs_dir"`
	TopK    int    `mapstructure:"top_k"`

	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type WorkflowConfig struct {
	MaxRepairRetries int `mapstructure:"max_repair_retries"`
	MaxSteps         int `mapstructure:"max_steps"`
	ResultTruncation int `mapstructure:"result_truncation"` // bytes of SQL result fed to synthesis
	BatchWorkers     int `mapstructure:"batch_workers"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
