// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"career-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownIndex = errors.New("unknown search index")
	ErrMissingIndex = errors.New("index name is required")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchQuery is one catalog search request.
type SearchQuery struct {
	Index   models.SearchIndex
	Filters models.CatalogFilter
	From    int
	Size    int
}

type builderFunc func(f models.CatalogFilter) map[string]interface{}

var builders = map[models.SearchIndex]builderFunc{
	models.IndexCareerPaths: buildCareerQuery,
	models.IndexColleges:    buildCollegeQuery,
	models.IndexCompanies:   buildCompanyQuery,
}

// BuildQuery builds the search request for q, normalising pagination.
func BuildQuery(q SearchQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}
	build, ok := builders[q.Index]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndex, q.Index)
	}

	from, size := q.From, q.Size
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	body, err := json.Marshal(build(q.Filters))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return &esapi.SearchRequest{
		Index: []string{string(q.Index)},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}, nil
}

func buildCareerQuery(f models.CatalogFilter) map[string]interface{} {
	var must, filter []interface{}
	if q := strings.TrimSpace(f.Query); q != "" {
		must = append(must, multiMatch(q, "title^3", "category^2", "description"))
	}
	if f.Category != "" {
		filter = append(filter, term("category", f.Category))
	}
	return boolQuery(must, filter)
}

func buildCollegeQuery(f models.CatalogFilter) map[string]interface{} {
	var must, filter []interface{}
	if q := strings.TrimSpace(f.Query); q != "" {
		must = append(must, multiMatch(q, "name^3", "city"))
	}
	if city := strings.TrimSpace(f.City); city != "" {
		filter = append(filter, contains("city.keyword", city))
	}
	if f.Type != "" {
		filter = append(filter, term("type", f.Type))
	}
	return boolQuery(must, filter)
}

func buildCompanyQuery(f models.CatalogFilter) map[string]interface{} {
	var must, filter []interface{}
	if q := strings.TrimSpace(f.Query); q != "" {
		must = append(must, multiMatch(q, "name^3", "industry^2", "city"))
	}
	if city := strings.TrimSpace(f.City); city != "" {
		filter = append(filter, contains("city.keyword", city))
	}
	if f.Industry != "" {
		filter = append(filter, term("industry.keyword", f.Industry))
	}
	return boolQuery(must, filter)
}

func boolQuery(must, filter []interface{}) map[string]interface{} {
	if len(must) == 0 && len(filter) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}
	b := map[string]interface{}{}
	if len(must) > 0 {
		b["must"] = must
	}
	if len(filter) > 0 {
		b["filter"] = filter
	}
	return map[string]interface{}{
		"query": map[string]interface{}{"bool": b},
	}
}

func multiMatch(query string, fields ...string) map[string]interface{} {
	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     query,
			"fields":    fields,
			"type":      "best_fields",
			"fuzziness": "AUTO",
		},
	}
}

func term(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

// contains is a case-insensitive substring match on a keyword field.
func contains(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"wildcard": map[string]interface{}{
			field: map[string]interface{}{
				"value":            "*" + strings.ToLower(value) + "*",
				"case_insensitive": true,
			},
		},
	}
}
