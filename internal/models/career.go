// internal/models/career.go
package models

type GrowthOutlook string

const (
	OutlookExcellent GrowthOutlook = "excellent"
	OutlookGood      GrowthOutlook = "good"
	OutlookModerate  GrowthOutlook = "moderate"
	OutlookDeclining GrowthOutlook = "declining"
)

// CareerPath is catalog reference data owned by administrators.
// RequiredDegree and GrowthOutlook are informational and never scored.
type CareerPath struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Category       string        `json:"category"`
	Description    string        `json:"description,omitempty"`
	SkillsRequired []string      `json:"skillsRequired"`
	RequiredStream Stream        `json:"requiredStream,omitempty"`
	RequiredDegree string        `json:"requiredDegree,omitempty"`
	AvgSalaryMin   *int64        `json:"avgSalaryMin,omitempty"`
	AvgSalaryMax   *int64        `json:"avgSalaryMax,omitempty"`
	GrowthOutlook  GrowthOutlook `json:"growthOutlook,omitempty"`
}

type ScoredCareerPath struct {
	CareerPath
	Score int `json:"score"`
}
