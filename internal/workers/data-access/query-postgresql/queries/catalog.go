// internal/workers/data-access/query-postgresql/queries/catalog.go
package queries

import (
	"context"
	"strings"

	"career-workers/internal/models"
	"career-workers/internal/repository"
)

// CareerPaths lists the catalog, optionally narrowed to one exact category
// and a case-insensitive title or category match.
func CareerPaths(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	careers, err := store.ListCareerPaths(ctx)
	if err != nil {
		return nil, 0, err
	}

	q := strings.ToLower(strings.TrimSpace(params.Filters.Query))
	filtered := make([]models.CareerPath, 0, len(careers))
	for _, c := range careers {
		if params.Filters.Category != "" && c.Category != params.Filters.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Category), q) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, len(filtered), nil
}

func Colleges(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	colleges, err := store.ListColleges(ctx, params.Filters, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	return colleges, len(colleges), nil
}

func Companies(ctx context.Context, store *repository.Store, params Params) (interface{}, int, error) {
	companies, err := store.ListCompanies(ctx, params.Filters, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	return companies, len(companies), nil
}
