// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"career-workers/internal/common/camunda"
	apperrors "career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/matching"
	"career-workers/internal/models"
	"career-workers/internal/presentation"
	"career-workers/internal/profiles"
	"career-workers/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-match-score"
)

var (
	ErrCareerNotFound = errors.New("CAREER_NOT_FOUND")
	ErrInvalidInput   = errors.New("INVALID_INPUT")
)

type ProfileResolver interface {
	Resolve(ctx context.Context, ref profiles.Ref) (models.AssessmentInput, string, error)
}

type CareerReader interface {
	GetCareerPath(ctx context.Context, id string) (models.CareerPath, error)
}

type Handler struct {
	config   *Config
	profiles ProfileResolver
	careers  CareerReader
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, resolver ProfileResolver, careers CareerReader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		profiles: resolver,
		careers:  careers,
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
		var stdErr error
		switch {
		case errors.Is(err, ErrInvalidInput):
			stdErr = apperrors.NewInvalidInputError(err.Error())
		case errors.Is(err, ErrCareerNotFound):
			stdErr = apperrors.NewCareerNotFoundError(input.CareerID)
		case errors.Is(err, profiles.ErrNoProfile):
			stdErr = apperrors.NewAssessmentNotFoundError(err.Error())
		default:
			stdErr = apperrors.NewQueryExecutionFailedError("career_paths", err)
		}
		return camunda.FailJob(ctx, client, job, h.errors, TaskType, stdErr)
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	career, err := h.career(ctx, input)
	if err != nil {
		return nil, err
	}

	profile, assessmentID, err := h.profiles.Resolve(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	breakdown := matching.Explain(profile, career)
	metrics.MatchScores.Observe(float64(breakdown.Total))

	h.logger.Info("match score calculated", map[string]interface{}{
		"careerId":     career.ID,
		"assessmentId": assessmentID,
		"score":        breakdown.Total,
	})

	return &Output{
		CareerID:     career.ID,
		AssessmentID: assessmentID,
		MatchScore:   breakdown.Total,
		Breakdown:    breakdown,
		ScoreHue:     presentation.ScoreHue(breakdown.Total),
	}, nil
}

func (h *Handler) career(ctx context.Context, input *Input) (models.CareerPath, error) {
	if input.Career != nil {
		return *input.Career, nil
	}
	if input.CareerID == "" {
		return models.CareerPath{}, fmt.Errorf("%w: career or careerId is required", ErrInvalidInput)
	}

	career, err := h.careers.GetCareerPath(ctx, input.CareerID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.CareerPath{}, fmt.Errorf("%w: %s", ErrCareerNotFound, input.CareerID)
	}
	return career, err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
