// internal/workers/counseling/career-chat/models.go
package careerchat

import "career-workers/internal/models"

// Input carries either the full conversation in Messages, or a single new
// Message to be appended to the user's stored history.
type Input struct {
	UserID   string               `json:"userId"`
	Message  string               `json:"message"`
	Messages []models.ChatMessage `json:"messages,omitempty"`
}

type Output struct {
	Reply      string   `json:"reply"`
	Fallback   bool     `json:"fallback"`
	Model      string   `json:"model"`
	Persisted  bool     `json:"persisted"`
	MessageIDs []string `json:"messageIds,omitempty"`
}

type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
}
