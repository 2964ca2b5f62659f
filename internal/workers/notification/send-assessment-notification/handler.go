// internal/workers/notification/send-assessment-notification/handler.go
package sendassessmentnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	awsclients "career-workers/internal/common/aws"
	"career-workers/internal/common/camunda"
	apperrors "career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/models"
	"career-workers/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-assessment-notification"

	maxTopCareers = 3
)

var (
	ErrInvalidInput    = errors.New("INVALID_INPUT")
	ErrRecipientLookup = errors.New("RECIPIENT_LOOKUP_FAILED")
)

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
}

type Handler struct {
	config    *Config
	profiles  ProfileReader
	sesClient awsclients.SESService
	snsClient awsclients.SNSService
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, profiles ProfileReader, sesClient awsclients.SESService, snsClient awsclients.SNSService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		profiles:  profiles,
		sesClient: sesClient,
		snsClient: snsClient,
		errors:    apperrors.NewErrorHandler(l),
		logger:    l,
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
		if errors.Is(err, ErrInvalidInput) {
			err = apperrors.NewInvalidInputError(err.Error())
		} else {
			err = apperrors.NewQueryExecutionFailedError("user_profile", err)
		}
		return camunda.FailJob(ctx, client, job, h.errors, TaskType, err)
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		Channels:       map[string]string{},
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	profile, err := h.profiles.GetProfile(ctx, input.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		h.logger.Warn("recipient not found", map[string]interface{}{
			"userId": input.UserID,
		})
		return output, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecipientLookup, err)
	}

	top := input.TopCareers
	if len(top) > maxTopCareers {
		top = top[:maxTopCareers]
	}
	msg := newMessage(profile.FullName, top)

	if h.config.EmailEnabled && h.sesClient != nil && profile.Email != "" {
		output.Channels[ChannelEmail] = h.sendEmail(ctx, profile.Email, msg)
	}
	if h.config.SMSEnabled && h.snsClient != nil && input.Phone != "" {
		output.Channels[ChannelSMS] = h.sendSMS(ctx, input.Phone, msg)
	}

	output.Status = overallStatus(output.Channels)

	h.logger.Info("assessment notification processed", map[string]interface{}{
		"userId":       input.UserID,
		"assessmentId": input.AssessmentID,
		"status":       output.Status,
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, msg message) string {
	htmlBody, err := msg.html()
	if err != nil {
		h.logger.Warn("render html body failed, sending text only", map[string]interface{}{
			"error": err.Error(),
		})
		htmlBody = ""
	}

	_, err = h.sesClient.SendEmail(ctx, awsclients.EmailInput(h.config.FromEmail, to, msg.Subject, msg.text(), htmlBody))
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{
			"error": err.Error(),
			"email": to,
		})
		return StatusFailed
	}
	return StatusSent
}

func (h *Handler) sendSMS(ctx context.Context, phone string, msg message) string {
	_, err := h.snsClient.Publish(ctx, awsclients.SMSInput(phone, msg.sms(), h.config.SMSSenderID))
	if err != nil {
		h.logger.Error("SMS send failed", map[string]interface{}{
			"error": err.Error(),
			"phone": phone,
		})
		return StatusFailed
	}
	return StatusSent
}

// overallStatus is sent when any channel delivered, failed when every attempt
// failed, and disabled when nothing was attempted.
func overallStatus(channels map[string]string) string {
	if len(channels) == 0 {
		return StatusDisabled
	}
	for _, s := range channels {
		if s == StatusSent {
			return StatusSent
		}
	}
	return StatusFailed
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
