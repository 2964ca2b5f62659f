// internal/profiles/resolver.go
package profiles

import (
	"context"
	"errors"
	"fmt"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"
	"career-workers/internal/repository"
)

var ErrNoProfile = errors.New("ASSESSMENT_NOT_FOUND")

// Ref names the profile to score against, in order of precedence: an inline
// profile, a stored assessment id, or the user's latest assessment.
type Ref struct {
	Profile      *models.AssessmentInput `json:"profile,omitempty"`
	AssessmentID string                  `json:"assessmentId,omitempty"`
	UserID       string                  `json:"userId,omitempty"`
}

type AssessmentReader interface {
	GetAssessment(ctx context.Context, id string) (models.AssessmentProfile, error)
	LatestAssessment(ctx context.Context, userID string) (models.AssessmentProfile, error)
}

type LatestCache interface {
	Get(ctx context.Context, userID string) (models.AssessmentProfile, bool, error)
	Fill(ctx context.Context, p models.AssessmentProfile) (bool, error)
}

type Resolver struct {
	store  AssessmentReader
	latest LatestCache
	logger logger.Logger
}

func NewResolver(store AssessmentReader, latest LatestCache, log logger.Logger) *Resolver {
	return &Resolver{store: store, latest: latest, logger: log}
}

// Resolve returns the profile and, when it came from storage, its id.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (models.AssessmentInput, string, error) {
	switch {
	case ref.Profile != nil:
		return *ref.Profile, "", nil
	case ref.AssessmentID != "":
		p, err := r.store.GetAssessment(ctx, ref.AssessmentID)
		if err != nil {
			return models.AssessmentInput{}, "", notFound(err, "assessment "+ref.AssessmentID)
		}
		return p.Input(), p.ID, nil
	case ref.UserID != "":
		p, err := r.latestFor(ctx, ref.UserID)
		if err != nil {
			return models.AssessmentInput{}, "", notFound(err, "user "+ref.UserID)
		}
		return p.Input(), p.ID, nil
	default:
		return models.AssessmentInput{}, "", fmt.Errorf("%w: no profile, assessmentId or userId given", ErrNoProfile)
	}
}

func (r *Resolver) latestFor(ctx context.Context, userID string) (models.AssessmentProfile, error) {
	p, found, err := r.latest.Get(ctx, userID)
	if err != nil {
		r.logger.Warn("latest assessment cache read failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	if found {
		return p, nil
	}

	p, err = r.store.LatestAssessment(ctx, userID)
	if err != nil {
		return models.AssessmentProfile{}, err
	}
	if _, err := r.latest.Fill(ctx, p); err != nil {
		r.logger.Warn("latest assessment cache write failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	return p, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNoProfile, what)
	}
	return err
}
