// internal/workers/retrieve/config.go
package retrieve

type Config struct {
	TopK int
}

func DefaultConfig() *Config {
	return &Config{TopK: 3}
}
