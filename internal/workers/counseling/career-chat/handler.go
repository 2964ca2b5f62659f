// internal/workers/counseling/career-chat/handler.go
package careerchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"career-workers/internal/common/camunda"
	apperrors "career-workers/internal/common/errors"
	commonhttp "career-workers/internal/common/http"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "career-chat"

	completionsPath = "/v1/chat/completions"
)

var (
	ErrChatTimeout  = errors.New("CHAT_TIMEOUT")
	ErrChatFailed   = errors.New("CHAT_FAILED")
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type ChatStore interface {
	ChatHistory(ctx context.Context, userID string, limit int) ([]models.StoredChatMessage, error)
	SaveChatMessages(ctx context.Context, userID string, msgs ...models.ChatMessage) ([]models.StoredChatMessage, error)
}

type Handler struct {
	config *Config
	client *commonhttp.Client
	store  ChatStore
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

// NewHandler wires the gateway client. store may be nil, in which case
// conversations are neither loaded nor saved.
func NewHandler(config *Config, store ChatStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: commonhttp.NewClient(config.Timeout, config.MaxRetries),
		store:  store,
		errors: apperrors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return camunda.FailJob(ctx, client, job, h.errors, TaskType,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
	}

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(execCtx, &input)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			err = apperrors.NewInvalidInputError(err.Error())
		case errors.Is(err, ErrChatTimeout):
			err = apperrors.NewChatTimeoutError()
		default:
			err = apperrors.NewChatFailedError(err)
		}
		return camunda.FailJob(ctx, client, job, h.errors, TaskType, err)
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	conversation, err := h.conversation(ctx, input)
	if err != nil {
		return nil, err
	}

	reply, err := h.complete(ctx, conversation)
	if err != nil {
		return nil, err
	}

	output := &Output{Model: h.config.Model, Reply: reply}
	if strings.TrimSpace(reply) == "" {
		output.Reply = FallbackReply
		output.Fallback = true
		metrics.ChatFallbacks.Inc()
		h.logger.Warn("empty completion, using fallback reply", nil)
	}

	if h.store != nil && input.UserID != "" {
		last := conversation[len(conversation)-1]
		saved, err := h.store.SaveChatMessages(ctx, input.UserID, last,
			models.ChatMessage{Role: models.ChatRoleAssistant, Content: output.Reply})
		if err != nil {
			h.logger.Warn("failed to persist chat messages", map[string]interface{}{
				"userId": input.UserID,
				"error":  err.Error(),
			})
		} else {
			output.Persisted = true
			for _, m := range saved {
				output.MessageIDs = append(output.MessageIDs, m.ID)
			}
		}
	}

	h.logger.Info("chat reply generated", map[string]interface{}{
		"turns":    len(conversation),
		"fallback": output.Fallback,
	})
	return output, nil
}

// conversation builds the user/assistant turns sent after the system prompt.
// The final turn is always the user's.
func (h *Handler) conversation(ctx context.Context, input *Input) ([]models.ChatMessage, error) {
	var turns []models.ChatMessage

	switch {
	case len(input.Messages) > 0:
		for _, m := range input.Messages {
			if m.Role != models.ChatRoleUser && m.Role != models.ChatRoleAssistant {
				return nil, fmt.Errorf("%w: unsupported role %q", ErrInvalidInput, m.Role)
			}
			turns = append(turns, m)
		}
	case h.store != nil && input.UserID != "" && h.config.HistoryLimit > 0:
		history, err := h.store.ChatHistory(ctx, input.UserID, h.config.HistoryLimit)
		if err != nil {
			h.logger.Warn("failed to load chat history", map[string]interface{}{
				"userId": input.UserID,
				"error":  err.Error(),
			})
			break
		}
		for _, m := range history {
			turns = append(turns, models.ChatMessage{Role: m.Role, Content: m.Content})
		}
	}

	if msg := strings.TrimSpace(input.Message); msg != "" {
		turns = append(turns, models.ChatMessage{Role: models.ChatRoleUser, Content: msg})
	}

	if len(turns) == 0 || turns[len(turns)-1].Role != models.ChatRoleUser ||
		strings.TrimSpace(turns[len(turns)-1].Content) == "" {
		return nil, fmt.Errorf("%w: conversation must end with a user message", ErrInvalidInput)
	}
	return turns, nil
}

func (h *Handler) complete(ctx context.Context, turns []models.ChatMessage) (string, error) {
	messages := make([]models.ChatMessage, 0, len(turns)+1)
	messages = append(messages, models.ChatMessage{Role: models.ChatRoleSystem, Content: systemPrompt})
	messages = append(messages, turns...)

	req := completionRequest{
		Model:       h.config.Model,
		Messages:    messages,
		MaxTokens:   h.config.MaxTokens,
		Temperature: h.config.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + h.config.APIKey}

	var resp completionResponse
	err := h.client.PostJSON(ctx, strings.TrimRight(h.config.BaseURL, "/")+completionsPath, headers, req, &resp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrChatTimeout
		}
		var se *commonhttp.StatusError
		if errors.As(err, &se) {
			return "", fmt.Errorf("%w: %s", ErrChatFailed, gatewayReason(se))
		}
		return "", fmt.Errorf("%w: %v", ErrChatFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func gatewayReason(se *commonhttp.StatusError) string {
	switch se.StatusCode {
	case 429:
		return "rate limit exceeded"
	case 402:
		return "payment required"
	default:
		return se.Error()
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
