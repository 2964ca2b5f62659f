// internal/assessment/collector.go
package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"career-workers/internal/models"
)

type Step string

const (
	StepProfile    Step = "step1_profile"
	StepSkills     Step = "step2_skills"
	StepInterests  Step = "step3_interests"
	StepSubmitting Step = "submitting"
	StepSubmitted  Step = "submitted"
)

var (
	ErrGuardNotMet        = errors.New("STEP_GUARD_NOT_MET")
	ErrNotEditable        = errors.New("ASSESSMENT_NOT_EDITABLE")
	ErrSubmissionInFlight = errors.New("SUBMISSION_IN_FLIGHT")
	ErrAlreadySubmitted   = errors.New("ASSESSMENT_ALREADY_SUBMITTED")
	ErrInvalidLevel       = errors.New("INVALID_STUDENT_LEVEL")
	ErrInvalidStream      = errors.New("INVALID_STREAM")
	ErrStreamRequired     = errors.New("STREAM_REQUIRED")
	ErrPersistenceFailed  = errors.New("ASSESSMENT_PERSIST_FAILED")
)

// Persister stores a finished assessment and returns the stored record with
// its id and creation time assigned. Implementations must not retain or
// modify the input slices.
type Persister interface {
	CreateAssessment(ctx context.Context, userID string, input models.AssessmentInput) (models.AssessmentProfile, error)
}

// Collector is the three-step assessment form for one user. All methods are
// safe for concurrent use; a second Submit while one is in flight is refused.
type Collector struct {
	mu sync.Mutex

	userID    string
	step      Step
	level     models.StudentLevel
	stream    models.Stream
	marks     int
	skills    []string
	interests []string
	city      string

	submitted *models.AssessmentProfile
	lastError string
}

func NewCollector(userID string) *Collector {
	return &Collector{
		userID:    userID,
		step:      StepProfile,
		marks:     models.DefaultMarks,
		skills:    []string{},
		interests: []string{},
	}
}

// NewCollectorWithDefaults pre-fills the level and city from the user's
// profile. An unknown level is ignored.
func NewCollectorWithDefaults(userID string, level models.StudentLevel, city string) *Collector {
	c := NewCollector(userID)
	if level.Valid() {
		c.level = level
	}
	c.city = strings.TrimSpace(city)
	return c
}

func (c *Collector) UserID() string { return c.userID }

func (c *Collector) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// editable returns an error matching both ErrNotEditable and the reason.
func (c *Collector) editable() error {
	switch c.step {
	case StepSubmitting:
		return fmt.Errorf("%w: %w", ErrNotEditable, ErrSubmissionInFlight)
	case StepSubmitted:
		return fmt.Errorf("%w: %w", ErrNotEditable, ErrAlreadySubmitted)
	}
	return nil
}

func (c *Collector) SetLevel(level models.StudentLevel) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
	c.level = level
	if !level.RequiresStream() {
		c.stream = ""
	}
	return nil
}

// SetStream sets or, with an empty value, clears the stream.
func (c *Collector) SetStream(stream models.Stream) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	if stream == "" {
		c.stream = ""
		return nil
	}
	if !stream.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStream, stream)
	}
	if c.level == models.LevelSchool10 {
		return fmt.Errorf("%w: no stream at level %s", ErrInvalidStream, c.level)
	}
	c.stream = stream
	return nil
}

// SetMarks clamps marks into the accepted range.
func (c *Collector) SetMarks(marks int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	c.marks = clampMarks(marks)
	return nil
}

func (c *Collector) SetPreferredCity(city string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	c.city = strings.TrimSpace(city)
	return nil
}

// ToggleSkill removes skill if selected, otherwise selects it unless the cap
// is reached. It reports whether the skill is selected afterwards.
func (c *Collector) ToggleSkill(skill string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return false, err
	}
	var selected bool
	c.skills, selected = toggle(c.skills, skill, models.MaxSkills)
	return selected, nil
}

func (c *Collector) ToggleInterest(interest string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return false, err
	}
	var selected bool
	c.interests, selected = toggle(c.interests, interest, models.MaxInterests)
	return selected, nil
}

func toggle(items []string, item string, limit int) ([]string, bool) {
	item = strings.TrimSpace(item)
	if item == "" {
		return items, false
	}
	for i, v := range items {
		if v == item {
			return append(items[:i:i], items[i+1:]...), false
		}
	}
	if len(items) >= limit {
		return items, false
	}
	return append(items, item), true
}

func clampMarks(marks int) int {
	if marks < models.MinMarks {
		return models.MinMarks
	}
	if marks > models.MaxMarks {
		return models.MaxMarks
	}
	return marks
}

// CanAdvance reports whether the guard of the current step holds.
func (c *Collector) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guard()
}

func (c *Collector) guard() bool {
	switch c.step {
	case StepProfile:
		return c.level != ""
	case StepSkills:
		return len(c.skills) >= 1
	case StepInterests:
		return len(c.interests) >= 1
	}
	return false
}

// Next moves to the following step. From the interests step the only way
// forward is Submit.
func (c *Collector) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	if c.step == StepInterests || !c.guard() {
		return fmt.Errorf("%w: %s", ErrGuardNotMet, c.step)
	}
	switch c.step {
	case StepProfile:
		c.step = StepSkills
	case StepSkills:
		c.step = StepInterests
	}
	return nil
}

// Back returns to the previous step keeping everything entered. It does
// nothing on the first step.
func (c *Collector) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	switch c.step {
	case StepSkills:
		c.step = StepProfile
	case StepInterests:
		c.step = StepSkills
	}
	return nil
}

// Input returns a copy of the profile entered so far.
func (c *Collector) Input() models.AssessmentInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input()
}

func (c *Collector) input() models.AssessmentInput {
	return models.AssessmentInput{
		StudentLevel:    c.level,
		Stream:          c.stream,
		MarksPercentage: c.marks,
		Skills:          append([]string{}, c.skills...),
		Interests:       append([]string{}, c.interests...),
		PreferredCity:   c.city,
	}
}

// Validate checks the invariants a submitted profile must hold.
func Validate(in models.AssessmentInput) error {
	if !in.StudentLevel.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, in.StudentLevel)
	}
	if in.Stream != "" && !in.Stream.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStream, in.Stream)
	}
	if in.StudentLevel.RequiresStream() && in.Stream == "" {
		return fmt.Errorf("%w: level %s", ErrStreamRequired, in.StudentLevel)
	}
	if !in.StudentLevel.RequiresStream() && in.Stream != "" {
		return fmt.Errorf("%w: no stream at level %s", ErrInvalidStream, in.StudentLevel)
	}
	if in.MarksPercentage < models.MinMarks || in.MarksPercentage > models.MaxMarks {
		return fmt.Errorf("%w: marks %d out of range", ErrGuardNotMet, in.MarksPercentage)
	}
	if len(in.Skills) < 1 || len(in.Skills) > models.MaxSkills {
		return fmt.Errorf("%w: %d skills", ErrGuardNotMet, len(in.Skills))
	}
	if len(in.Interests) < 1 || len(in.Interests) > models.MaxInterests {
		return fmt.Errorf("%w: %d interests", ErrGuardNotMet, len(in.Interests))
	}
	return nil
}

// Submit hands the profile to p exactly once. While the call is running the
// collector is in StepSubmitting and refuses edits and further submits. On
// failure it returns to StepInterests with all data kept.
func (c *Collector) Submit(ctx context.Context, p Persister) (models.AssessmentProfile, error) {
	c.mu.Lock()
	if err := c.editable(); err != nil {
		c.mu.Unlock()
		return models.AssessmentProfile{}, err
	}
	if c.step != StepInterests || !c.guard() {
		step := c.step
		c.mu.Unlock()
		return models.AssessmentProfile{}, fmt.Errorf("%w: %s", ErrGuardNotMet, step)
	}
	input := c.input()
	if err := Validate(input); err != nil {
		c.mu.Unlock()
		return models.AssessmentProfile{}, err
	}
	c.step = StepSubmitting
	c.lastError = ""
	c.mu.Unlock()

	profile, err := p.CreateAssessment(ctx, c.userID, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.step = StepInterests
		c.lastError = err.Error()
		return models.AssessmentProfile{}, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	c.step = StepSubmitted
	c.submitted = &profile
	return profile, nil
}

// Submitted returns the stored record once the collector reached StepSubmitted.
func (c *Collector) Submitted() (models.AssessmentProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted == nil {
		return models.AssessmentProfile{}, false
	}
	return *c.submitted, true
}

func (c *Collector) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}
