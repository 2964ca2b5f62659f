// internal/workers/counseling/career-chat/config.go
package careerchat

import "time"

type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	MaxRetries   int
	HistoryLimit int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:      "https://ai.gateway.lovable.dev",
		Model:        "google/gemini-2.5-flash",
		MaxTokens:    800,
		Temperature:  0.7,
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		HistoryLimit: 20,
	}
}
