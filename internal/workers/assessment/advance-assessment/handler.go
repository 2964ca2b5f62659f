// internal/workers/assessment/advance-assessment/handler.go
package advanceassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"career-workers/internal/assessment"
	"career-workers/internal/assessment/session"
	"career-workers/internal/common/camunda"
	apperrors "career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/models"
	"career-workers/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "advance-assessment"
)

var (
	ErrInvalidInput       = errors.New("INVALID_INPUT")
	ErrSessionStoreFailed = errors.New("SESSION_STORE_FAILED")
)

type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*assessment.Collector, error)
	Save(ctx context.Context, sessionID string, c *assessment.Collector) (assessment.Snapshot, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
}

type Handler struct {
	config   *Config
	sessions SessionStore
	profiles ProfileReader
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, sessions SessionStore, profiles ProfileReader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		sessions: sessions,
		profiles: profiles,
		errors:   apperrors.NewErrorHandler(l),
		logger:   l,
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
		return camunda.FailJob(ctx, client, job, h.errors, TaskType, h.classify(err, &input))
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) classify(err error, input *Input) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return apperrors.NewSessionNotFoundError(input.SessionID)
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	default:
		return apperrors.NewSessionStoreFailedError(err)
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	var (
		c   *assessment.Collector
		err error
	)
	if input.Action == ActionStart {
		if input.SessionID == "" {
			input.SessionID = uuid.New().String()
		}
		c = h.start(ctx, input.UserID)
	} else {
		if input.SessionID == "" {
			return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
		}
		c, err = h.sessions.Load(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		if c.UserID() != input.UserID {
			return nil, fmt.Errorf("%w: session %s belongs to another user", ErrInvalidInput, input.SessionID)
		}
	}

	selected, err := apply(c, input)
	output := &Output{Accepted: err == nil, Selected: selected}
	if err != nil {
		if !isRefusal(err) {
			return nil, err
		}
		output.Refusal = err.Error()
		metrics.AssessmentTransitions.WithLabelValues(string(input.Action), "refused").Inc()
		h.logger.Debug("action refused", map[string]interface{}{
			"sessionId": input.SessionID,
			"action":    input.Action,
			"reason":    err.Error(),
		})
	} else {
		metrics.AssessmentTransitions.WithLabelValues(string(input.Action), "accepted").Inc()
	}

	snap, err := h.sessions.Save(ctx, input.SessionID, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}
	output.Snapshot = snap
	return output, nil
}

// start opens a collector pre-filled from the user's profile when one exists.
func (h *Handler) start(ctx context.Context, userID string) *assessment.Collector {
	profile, err := h.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Warn("profile lookup failed, starting empty", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		return assessment.NewCollector(userID)
	}
	return assessment.NewCollectorWithDefaults(userID, profile.StudentLevel, profile.City)
}

func apply(c *assessment.Collector, input *Input) (*bool, error) {
	switch input.Action {
	case ActionStart:
		return nil, nil
	case ActionSetLevel:
		return nil, c.SetLevel(models.StudentLevel(input.Value))
	case ActionSetStream:
		return nil, c.SetStream(models.Stream(input.Value))
	case ActionSetMarks:
		if input.Marks == nil {
			return nil, fmt.Errorf("%w: marks is required for %s", ErrInvalidInput, input.Action)
		}
		return nil, c.SetMarks(*input.Marks)
	case ActionSetCity:
		return nil, c.SetPreferredCity(input.Value)
	case ActionToggleSkill:
		selected, err := c.ToggleSkill(input.Value)
		return &selected, err
	case ActionToggleInterest:
		selected, err := c.ToggleInterest(input.Value)
		return &selected, err
	case ActionNext:
		return nil, c.Next()
	case ActionBack:
		return nil, c.Back()
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, input.Action)
	}
}

// isRefusal reports whether err is a rejected transition rather than a failure.
func isRefusal(err error) bool {
	for _, target := range []error{
		assessment.ErrGuardNotMet,
		assessment.ErrNotEditable,
		assessment.ErrInvalidLevel,
		assessment.ErrInvalidStream,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
