// internal/workers/sqlgen/config.go
package sqlgen

type Config struct {
	// MaxTokens boosts the token budget for this step; query generation is
	// the longest-output call in the workflow.
	MaxTokens int
}

func DefaultConfig() *Config {
	return &Config{MaxTokens: 1024}
}
