// internal/workers/assessment/submit-assessment/models.go
package submitassessment

import (
	"career-workers/internal/assessment"
	"career-workers/internal/models"
)

// Input submits either the collector stored under SessionID or, when
// Assessment is set, a complete profile supplied by the process.
type Input struct {
	SessionID  string                  `json:"sessionId"`
	UserID     string                  `json:"userId"`
	Assessment *models.AssessmentInput `json:"assessment,omitempty"`
}

type Output struct {
	SessionID    string                   `json:"sessionId"`
	Step         assessment.Step          `json:"step"`
	AssessmentID string                   `json:"assessmentId"`
	Assessment   models.AssessmentProfile `json:"assessment"`
	EventSent    bool                     `json:"eventSent"`
}

// SubmittedEvent is the payload of the assessment.submitted event.
type SubmittedEvent struct {
	AssessmentID string              `json:"assessmentId"`
	UserID       string              `json:"userId"`
	StudentLevel models.StudentLevel `json:"studentLevel"`
	Stream       models.Stream       `json:"stream,omitempty"`
	CreatedAt    string              `json:"createdAt"`
}

const assessmentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["studentLevel", "marksPercentage", "skills", "interests"],
  "properties": {
    "studentLevel": {"enum": ["school_10", "school_11", "school_12", "ug", "pg"]},
    "stream": {"enum": ["science", "computer_science", "commerce", "arts", "engineering", "medical", "management", "law", "other"]},
    "marksPercentage": {"type": "integer", "minimum": 30, "maximum": 100},
    "skills": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "minItems": 1,
      "maxItems": 8,
      "uniqueItems": true
    },
    "interests": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "minItems": 1,
      "maxItems": 5,
      "uniqueItems": true
    },
    "preferredCity": {"type": "string", "maxLength": 100}
  }
}`
