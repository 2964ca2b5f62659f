// internal/workers/matching/rank-career-paths/models.go
package rankcareerpaths

import (
	"career-workers/internal/presentation"
	"career-workers/internal/profiles"
)

type Input struct {
	profiles.Ref
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	AssessmentID     string                    `json:"assessmentId,omitempty"`
	Recommendations  []presentation.CareerCard `json:"recommendations"`
	CatalogSize      int                       `json:"catalogSize"`
	CatalogAvailable bool                      `json:"catalogAvailable"`
}
