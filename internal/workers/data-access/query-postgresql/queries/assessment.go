// internal/workers/data-access/query-postgresql/queries/assessment.go
package queries

import (
	"context"
	"errors"

	"career-workers/internal/repository"
)

// LatestAssessment returns nil data and zero rows when the user has none.
func LatestAssessment(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	if err := requireUser(params); err != nil {
		return nil, 0, err
	}
	p, err := store.LatestAssessment(ctx, params.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return p, 1, nil
}

func AssessmentHistory(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	if err := requireUser(params); err != nil {
		return nil, 0, err
	}
	history, err := store.AssessmentHistory(ctx, params.UserID, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	return history, len(history), nil
}

func UserProfile(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	if err := requireUser(params); err != nil {
		return nil, 0, err
	}
	p, err := store.GetProfile(ctx, params.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return p, 1, nil
}

func ChatHistory(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	if err := requireUser(params); err != nil {
		return nil, 0, err
	}
	history, err := store.ChatHistory(ctx, params.UserID, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	return history, len(history), nil
}
