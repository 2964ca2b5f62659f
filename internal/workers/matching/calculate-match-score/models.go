// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import (
	"career-workers/internal/matching"
	"career-workers/internal/models"
	"career-workers/internal/profiles"
)

// Input scores one career, given inline or by id, against a profile.
type Input struct {
	profiles.Ref
	CareerID string             `json:"careerId,omitempty"`
	Career   *models.CareerPath `json:"career,omitempty"`
}

type Output struct {
	CareerID     string             `json:"careerId"`
	AssessmentID string             `json:"assessmentId,omitempty"`
	MatchScore   int                `json:"matchScore"`
	Breakdown    matching.Breakdown `json:"breakdown"`
	ScoreHue     float64            `json:"scoreHue"`
}
