// internal/workers/assessment/submit-assessment/config.go
package submitassessment

import "time"

type Config struct {
	Timeout       time.Duration
	SubmitLockTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       15 * time.Second,
		SubmitLockTTL: 30 * time.Second,
	}
}
