package advanceassessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-workers/internal/assessment"
	"career-workers/internal/assessment/session"
	"career-workers/internal/common/logger"
	"career-workers/internal/models"
	"career-workers/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	profile models.UserProfile
	err     error
}

func (s *stubProfiles) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	return s.profile, s.err
}

func createTestHandler(t *testing.T, profiles ProfileReader) (*Handler, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := session.NewStore(rdb, time.Hour)
	return NewHandler(LoadConfig(), store, profiles, logger.NewTestLogger(t)), mr
}

func intPtr(v int) *int { return &v }

type stubPersister struct{}

func (stubPersister) CreateAssessment(ctx context.Context, userID string, in models.AssessmentInput) (models.AssessmentProfile, error) {
	return models.AssessmentProfile{ID: "a-1", UserID: userID, StudentLevel: in.StudentLevel}, nil
}

func saveSubmittedSession(t *testing.T, h *Handler, sessionID string) {
	c := assessment.NewCollectorWithDefaults("user-1", models.LevelSchool12, "Pune")
	require.NoError(t, c.SetStream(models.StreamScience))
	require.NoError(t, c.Next())
	_, err := c.ToggleSkill("Programming")
	require.NoError(t, err)
	require.NoError(t, c.Next())
	_, err = c.ToggleInterest("Technology")
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), stubPersister{})
	require.NoError(t, err)

	_, err = h.sessions.Save(context.Background(), sessionID, c)
	require.NoError(t, err)
}

func TestHandler_Execute_Start(t *testing.T) {
	tests := []struct {
		name           string
		profiles       *stubProfiles
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "pre-fills level and city from profile",
			profiles: &stubProfiles{profile: models.UserProfile{
				UserID: "user-1", StudentLevel: models.LevelSchool12, City: "Jaipur",
			}},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.LevelSchool12, output.Input.StudentLevel)
				assert.Equal(t, "Jaipur", output.Input.PreferredCity)
				assert.True(t, output.CanAdvance)
			},
		},
		{
			name:     "no profile starts empty",
			profiles: &stubProfiles{err: repository.ErrNotFound},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.StudentLevel(""), output.Input.StudentLevel)
				assert.False(t, output.CanAdvance)
			},
		},
		{
			name:     "profile lookup failure starts empty",
			profiles: &stubProfiles{err: errors.New("db down")},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.DefaultMarks, output.Input.MarksPercentage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mr := createTestHandler(t, tt.profiles)

			output, err := h.Execute(context.Background(), &Input{UserID: "user-1", Action: ActionStart})
			require.NoError(t, err)

			assert.True(t, output.Accepted)
			assert.NotEmpty(t, output.SessionID)
			assert.Equal(t, assessment.StepProfile, output.Step)
			assert.True(t, mr.Exists("assessment:session:"+output.SessionID))
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_WalkThroughSteps(t *testing.T) {
	h, _ := createTestHandler(t, &stubProfiles{err: repository.ErrNotFound})
	ctx := context.Background()

	start, err := h.Execute(ctx, &Input{UserID: "user-1", Action: ActionStart})
	require.NoError(t, err)
	sid := start.SessionID

	run := func(in Input) *Output {
		in.SessionID = sid
		in.UserID = "user-1"
		out, err := h.Execute(ctx, &in)
		require.NoError(t, err)
		return out
	}

	out := run(Input{Action: ActionNext})
	assert.False(t, out.Accepted)
	assert.Contains(t, out.Refusal, "STEP_GUARD_NOT_MET")

	run(Input{Action: ActionSetLevel, Value: "school_12"})
	run(Input{Action: ActionSetStream, Value: "science"})
	out = run(Input{Action: ActionSetMarks, Marks: intPtr(120)})
	assert.Equal(t, 100, out.Input.MarksPercentage)

	out = run(Input{Action: ActionNext})
	require.True(t, out.Accepted)
	assert.Equal(t, assessment.StepSkills, out.Step)

	out = run(Input{Action: ActionToggleSkill, Value: "Programming"})
	require.NotNil(t, out.Selected)
	assert.True(t, *out.Selected)

	out = run(Input{Action: ActionNext})
	assert.Equal(t, assessment.StepInterests, out.Step)

	out = run(Input{Action: ActionToggleInterest, Value: "Technology"})
	assert.True(t, *out.Selected)
	assert.True(t, out.CanAdvance)

	out = run(Input{Action: ActionBack})
	assert.Equal(t, assessment.StepSkills, out.Step)
	assert.Equal(t, []string{"Programming"}, out.Input.Skills)
	assert.Equal(t, []string{"Technology"}, out.Input.Interests)
}

func TestHandler_Execute_Refusals(t *testing.T) {
	h, _ := createTestHandler(t, &stubProfiles{profile: models.UserProfile{StudentLevel: models.LevelSchool10}})
	ctx := context.Background()

	start, err := h.Execute(ctx, &Input{UserID: "user-1", Action: ActionStart})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{SessionID: start.SessionID, UserID: "user-1", Action: ActionSetStream, Value: "science"})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Contains(t, out.Refusal, "INVALID_STREAM")

	out, err = h.Execute(ctx, &Input{SessionID: start.SessionID, UserID: "user-1", Action: ActionSetLevel, Value: "phd"})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Contains(t, out.Refusal, "INVALID_STUDENT_LEVEL")
}

func TestHandler_Execute_SubmittedSessionRefusesEdits(t *testing.T) {
	h, _ := createTestHandler(t, &stubProfiles{})
	saveSubmittedSession(t, h, "sess-done")

	out, err := h.Execute(context.Background(), &Input{SessionID: "sess-done", UserID: "user-1", Action: ActionToggleSkill, Value: "Design"})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Contains(t, out.Refusal, "ASSESSMENT_NOT_EDITABLE")
	assert.Contains(t, out.Refusal, "ASSESSMENT_ALREADY_SUBMITTED")
	assert.Equal(t, []string{"Programming"}, out.Input.Skills)
}

func TestHandler_Execute_Errors(t *testing.T) {
	h, _ := createTestHandler(t, &stubProfiles{})
	ctx := context.Background()

	start, err := h.Execute(ctx, &Input{UserID: "user-1", Action: ActionStart})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "missing user", input: Input{Action: ActionNext, SessionID: start.SessionID}, wantErr: ErrInvalidInput},
		{name: "missing session", input: Input{UserID: "user-1", Action: ActionNext}, wantErr: ErrInvalidInput},
		{name: "unknown session", input: Input{UserID: "user-1", SessionID: "ghost", Action: ActionNext}, wantErr: session.ErrSessionNotFound},
		{name: "other user's session", input: Input{UserID: "user-2", SessionID: start.SessionID, Action: ActionNext}, wantErr: ErrInvalidInput},
		{name: "unknown action", input: Input{UserID: "user-1", SessionID: start.SessionID, Action: "jump"}, wantErr: ErrInvalidInput},
		{name: "marks missing", input: Input{UserID: "user-1", SessionID: start.SessionID, Action: ActionSetMarks}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			_, err := h.Execute(ctx, &in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHandler_Classify(t *testing.T) {
	h, _ := createTestHandler(t, &stubProfiles{})
	in := &Input{SessionID: "sess-1"}

	assert.Contains(t, h.classify(session.ErrSessionNotFound, in).Error(), "ASSESSMENT_SESSION_NOT_FOUND")
	assert.Contains(t, h.classify(ErrInvalidInput, in).Error(), "INVALID_INPUT")
	assert.Contains(t, h.classify(errors.New("redis down"), in).Error(), "SESSION_STORE_FAILED")
}
