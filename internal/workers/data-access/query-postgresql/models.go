// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "career-workers/internal/models"

type Input struct {
	QueryType string               `json:"queryType"`
	UserID    string               `json:"userId,omitempty"`
	Filters   models.CatalogFilter `json:"filters,omitempty"`
	Limit     int                  `json:"limit,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType
