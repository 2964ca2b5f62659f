// internal/assessment/snapshot.go
package assessment

import "career-workers/internal/models"

// Snapshot is the serialisable state of a Collector, kept between jobs.
type Snapshot struct {
	SessionID  string                    `json:"sessionId"`
	UserID     string                    `json:"userId"`
	Step       Step                      `json:"step"`
	Input      models.AssessmentInput    `json:"input"`
	Submitted  *models.AssessmentProfile `json:"submitted,omitempty"`
	LastError  string                    `json:"lastError,omitempty"`
	CanAdvance bool                      `json:"canAdvance"`
}

func (c *Collector) Snapshot(sessionID string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID:  sessionID,
		UserID:     c.userID,
		Step:       c.step,
		Input:      c.input(),
		LastError:  c.lastError,
		CanAdvance: c.guard(),
	}
	if c.submitted != nil {
		p := *c.submitted
		s.Submitted = &p
	}
	return s
}

// Restore rebuilds a collector from a snapshot. A snapshot taken mid-submit
// resumes on the interests step since the in-flight call is gone.
func Restore(s Snapshot) *Collector {
	c := NewCollector(s.UserID)
	c.step = s.Step
	if c.step == StepSubmitting {
		c.step = StepInterests
	}
	switch c.step {
	case StepProfile, StepSkills, StepInterests, StepSubmitted:
	default:
		c.step = StepProfile
	}

	if s.Input.StudentLevel.Valid() {
		c.level = s.Input.StudentLevel
	}
	if s.Input.Stream.Valid() && c.level != models.LevelSchool10 {
		c.stream = s.Input.Stream
	}
	c.marks = clampMarks(s.Input.MarksPercentage)
	c.skills = appendDistinct(c.skills, s.Input.Skills, models.MaxSkills)
	c.interests = appendDistinct(c.interests, s.Input.Interests, models.MaxInterests)
	c.city = s.Input.PreferredCity
	c.lastError = s.LastError

	if s.Submitted != nil {
		p := *s.Submitted
		c.submitted = &p
	} else if c.step == StepSubmitted {
		c.step = StepInterests
	}
	return c
}

func appendDistinct(dst, items []string, limit int) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, item := range items {
		if len(dst) >= limit {
			break
		}
		if _, ok := seen[item]; ok || item == "" {
			continue
		}
		seen[item] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}
