// internal/workers/assessment/submit-assessment/handler.go
package submitassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"career-workers/internal/assessment"
	"career-workers/internal/assessment/session"
	"career-workers/internal/common/camunda"
	apperrors "career-workers/internal/common/errors"
	"career-workers/internal/common/events"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/common/validation"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "submit-assessment"
)

var (
	ErrInvalidInput        = errors.New("INVALID_INPUT")
	ErrValidationFailed    = errors.New("ASSESSMENT_VALIDATION_FAILED")
	ErrDuplicateSubmission = errors.New("DUPLICATE_SUBMISSION")
	ErrSessionStoreFailed  = errors.New("SESSION_STORE_FAILED")
)

type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*assessment.Collector, error)
	Save(ctx context.Context, sessionID string, c *assessment.Collector) (assessment.Snapshot, error)
	AcquireSubmitLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, sessionID string) error
}

type LatestCache interface {
	Set(ctx context.Context, p models.AssessmentProfile) error
}

type Handler struct {
	config    *Config
	sessions  SessionStore
	persister assessment.Persister
	latest    LatestCache
	publisher events.Publisher
	schema    *validation.Schema
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, sessions SessionStore, persister assessment.Persister, latest LatestCache, publisher events.Publisher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sessions:  sessions,
		persister: persister,
		latest:    latest,
		publisher: publisher,
		schema:    validation.MustCompile(assessmentSchema),
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
		return camunda.FailJob(ctx, client, job, h.errors, TaskType, classify(err, &input))
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func classify(err error, input *Input) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return apperrors.NewSessionNotFoundError(input.SessionID)
	case errors.Is(err, ErrDuplicateSubmission),
		errors.Is(err, assessment.ErrSubmissionInFlight),
		errors.Is(err, assessment.ErrAlreadySubmitted):
		return apperrors.NewDuplicateSubmissionError(input.SessionID)
	case errors.Is(err, assessment.ErrPersistenceFailed):
		return apperrors.NewPersistFailedError(err)
	case errors.Is(err, ErrValidationFailed),
		errors.Is(err, assessment.ErrGuardNotMet),
		errors.Is(err, assessment.ErrInvalidLevel),
		errors.Is(err, assessment.ErrInvalidStream),
		errors.Is(err, assessment.ErrStreamRequired):
		return apperrors.NewValidationError(err.Error())
	default:
		return apperrors.NewSessionStoreFailedError(err)
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" || input.UserID == "" {
		return nil, fmt.Errorf("%w: sessionId and userId are required", ErrInvalidInput)
	}

	locked, err := h.sessions.AcquireSubmitLock(ctx, input.SessionID, h.config.SubmitLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}
	if !locked {
		metrics.AssessmentsSubmitted.WithLabelValues("duplicate").Inc()
		return nil, fmt.Errorf("%w: session %s", ErrDuplicateSubmission, input.SessionID)
	}
	defer func() {
		if err := h.sessions.ReleaseSubmitLock(context.WithoutCancel(ctx), input.SessionID); err != nil {
			h.logger.Warn("failed to release submit lock", map[string]interface{}{
				"sessionId": input.SessionID,
				"error":     err.Error(),
			})
		}
	}()

	c, err := h.collector(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := h.validate(c.Input()); err != nil {
		return nil, err
	}

	profile, submitErr := c.Submit(ctx, h.persister)

	// the session keeps either the stored record or the retained data
	if _, err := h.sessions.Save(ctx, input.SessionID, c); err != nil {
		h.logger.Error("failed to save session after submit", map[string]interface{}{
			"sessionId": input.SessionID,
			"error":     err.Error(),
		})
	}

	if submitErr != nil {
		metrics.AssessmentsSubmitted.WithLabelValues("failed").Inc()
		return nil, submitErr
	}
	metrics.AssessmentsSubmitted.WithLabelValues("stored").Inc()

	if err := h.latest.Set(ctx, profile); err != nil {
		h.logger.Warn("failed to cache latest assessment", map[string]interface{}{
			"userId": profile.UserID,
			"error":  err.Error(),
		})
	}

	eventSent := true
	if err := h.publisher.Publish(ctx, events.RoutingAssessmentSubmitted, SubmittedEvent{
		AssessmentID: profile.ID,
		UserID:       profile.UserID,
		StudentLevel: profile.StudentLevel,
		Stream:       profile.Stream,
		CreatedAt:    profile.CreatedAt,
	}); err != nil {
		eventSent = false
		h.logger.Warn("failed to publish submitted event", map[string]interface{}{
			"assessmentId": profile.ID,
			"error":        err.Error(),
		})
	}

	h.logger.Info("assessment submitted", map[string]interface{}{
		"assessmentId": profile.ID,
		"userId":       profile.UserID,
	})

	return &Output{
		SessionID:    input.SessionID,
		Step:         c.Step(),
		AssessmentID: profile.ID,
		Assessment:   profile,
		EventSent:    eventSent,
	}, nil
}

// collector returns the collector to submit: the stored session, or one
// positioned on the interests step holding the supplied profile.
func (h *Handler) collector(ctx context.Context, input *Input) (*assessment.Collector, error) {
	if input.Assessment != nil {
		if err := h.validate(*input.Assessment); err != nil {
			return nil, err
		}
		return assessment.Restore(assessment.Snapshot{
			SessionID: input.SessionID,
			UserID:    input.UserID,
			Step:      assessment.StepInterests,
			Input:     *input.Assessment,
		}), nil
	}

	c, err := h.sessions.Load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if c.UserID() != input.UserID {
		return nil, fmt.Errorf("%w: session %s belongs to another user", ErrInvalidInput, input.SessionID)
	}
	return c, nil
}

func (h *Handler) validate(in models.AssessmentInput) error {
	result, err := h.schema.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if !result.Valid {
		metrics.AssessmentsSubmitted.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: %s", ErrValidationFailed, result.Summary())
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
