// internal/workers/synthesize/config.go
package synthesize

type Config struct {
	// ResultTruncation bounds the SQL result text fed to the generator.
	ResultTruncation int
}

func DefaultConfig() *Config {
	return &Config{ResultTruncation: 2000}
}
