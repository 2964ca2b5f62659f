// internal/workers/matching/rank-career-paths/handler.go
package rankcareerpaths

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"career-workers/internal/cache"
	"career-workers/internal/common/camunda"
	apperrors "career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/matching"
	"career-workers/internal/models"
	"career-workers/internal/presentation"
	"career-workers/internal/profiles"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-career-paths"
)

type ProfileResolver interface {
	Resolve(ctx context.Context, ref profiles.Ref) (models.AssessmentInput, string, error)
}

type Handler struct {
	config   *Config
	profiles ProfileResolver
	catalog  cache.CareerLister
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, resolver ProfileResolver, catalog cache.CareerLister, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		profiles: resolver,
		catalog:  catalog,
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
		if errors.Is(err, profiles.ErrNoProfile) {
			err = apperrors.NewAssessmentNotFoundError(err.Error())
		} else {
			err = apperrors.NewQueryExecutionFailedError("latest_assessment", err)
		}
		return camunda.FailJob(ctx, client, job, h.errors, TaskType, err)
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile, assessmentID, err := h.profiles.Resolve(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	// an unavailable catalog ranks as an empty one
	available := true
	careers, err := h.catalog.ListCareerPaths(ctx)
	if err != nil {
		available = false
		careers = nil
		h.logger.Warn("career catalog unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	ranked := matching.Rank(profile, careers, limit)
	for _, r := range ranked {
		metrics.MatchScores.Observe(float64(r.Score))
	}

	h.logger.Info("career paths ranked", map[string]interface{}{
		"assessmentId": assessmentID,
		"catalogSize":  len(careers),
		"returned":     len(ranked),
	})

	return &Output{
		AssessmentID:     assessmentID,
		Recommendations:  presentation.Cards(ranked),
		CatalogSize:      len(careers),
		CatalogAvailable: available,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
