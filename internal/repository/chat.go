// internal/repository/chat.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"career-workers/internal/common/database"
	"career-workers/internal/models"

	"github.com/google/uuid"
)

// SaveChatMessages appends messages to the user's conversation in one
// transaction, in order.
func (s *Store) SaveChatMessages(ctx context.Context, userID string, msgs ...models.ChatMessage) ([]models.StoredChatMessage, error) {
	stored := make([]models.StoredChatMessage, 0, len(msgs))
	now := time.Now().UTC()

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for i, m := range msgs {
			// distinct timestamps keep the conversation order stable
			createdAt := now.Add(time.Duration(i) * time.Millisecond)
			id := uuid.New().String()
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO chat_messages (id, user_id, role, content, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				id, userID, string(m.Role), m.Content, createdAt,
			); err != nil {
				return fmt.Errorf("insert chat message: %w", err)
			}
			stored = append(stored, models.StoredChatMessage{
				ID:        id,
				UserID:    userID,
				Role:      m.Role,
				Content:   m.Content,
				CreatedAt: timestamp(createdAt),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ChatHistory returns the user's last limit messages, oldest first.
func (s *Store) ChatHistory(ctx context.Context, userID string, limit int) ([]models.StoredChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, role, content, created_at FROM (
			SELECT id, user_id, role, content, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`, userID, clampLimit(limit, 50, 200))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []models.StoredChatMessage{}
	for rows.Next() {
		var (
			m         models.StoredChatMessage
			role      string
			createdAt time.Time
		)
		if err := rows.Scan(&m.ID, &m.UserID, &role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.Role = models.ChatRole(role)
		m.CreatedAt = timestamp(createdAt)
		history = append(history, m)
	}
	return history, rows.Err()
}
