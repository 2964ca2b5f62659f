// internal/models/chat.go
package models

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type StoredChatMessage struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Role      ChatRole `json:"role"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
}
