// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-workers/internal/models"
	"career-workers/internal/repository"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

type Params struct {
	UserID  string
	Filters models.CatalogFilter
	Limit   int
}

// QueryFunc returns the data and its row count.
type QueryFunc func(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeCareerPaths:       CareerPaths,
	models.QueryTypeLatestAssessment:  LatestAssessment,
	models.QueryTypeAssessmentHistory: AssessmentHistory,
	models.QueryTypeUserProfile:       UserProfile,
	models.QueryTypeColleges:          Colleges,
	models.QueryTypeCompanies:         Companies,
	models.QueryTypeChatHistory:       ChatHistory,
}

// Execute returns: data, rowCount, executionTime (ms), error
func Execute(ctx context.Context, store *repository.Store, queryType models.QueryType, params Params) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}

	start := time.Now()
	data, rows, err := fn(ctx, store, params)
	if err != nil {
		return nil, 0, 0, err
	}
	return data, rows, time.Since(start).Milliseconds(), nil
}

func requireUser(params Params) error {
	if params.UserID == "" {
		return fmt.Errorf("%w: userId", ErrMissingParam)
	}
	return nil
}
