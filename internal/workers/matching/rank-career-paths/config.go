// internal/workers/matching/rank-career-paths/config.go
package rankcareerpaths

import (
	"time"

	"career-workers/internal/matching"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		DefaultLimit: matching.DefaultLimit,
	}
}
