// internal/workers/assessment/advance-assessment/models.go
package advanceassessment

import "career-workers/internal/assessment"

type Action string

const (
	ActionStart          Action = "start"
	ActionSetLevel       Action = "set_level"
	ActionSetStream      Action = "set_stream"
	ActionSetMarks       Action = "set_marks"
	ActionSetCity        Action = "set_city"
	ActionToggleSkill    Action = "toggle_skill"
	ActionToggleInterest Action = "toggle_interest"
	ActionNext           Action = "next"
	ActionBack           Action = "back"
)

type Input struct {
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId"`
	Action    Action `json:"action"`
	Value     string `json:"value,omitempty"`
	Marks     *int   `json:"marks,omitempty"`
}

type Output struct {
	assessment.Snapshot
	Accepted bool   `json:"accepted"`
	Refusal  string `json:"refusal,omitempty"`
	Selected *bool  `json:"selected,omitempty"`
}
