package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"career-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

var assessmentRowColumns = []string{
	"id", "user_id", "student_level", "stream", "marks_percentage",
	"skills", "interests", "preferred_city", "created_at",
}

func TestCreateAssessment(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO student_assessments`).
		WithArgs(sqlmock.AnyArg(), "user-1", "school_12", "science", 88,
			sqlmock.AnyArg(), sqlmock.AnyArg(), "Pune", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	in := models.AssessmentInput{
		StudentLevel:    models.LevelSchool12,
		Stream:          models.StreamScience,
		MarksPercentage: 88,
		Skills:          []string{"Programming"},
		Interests:       []string{"Technology"},
		PreferredCity:   "Pune",
	}
	got, err := store.CreateAssessment(context.Background(), "user-1", in)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "2026-03-01T10:00:00Z", got.CreatedAt)
	assert.Equal(t, []string{"Programming"}, got.Skills)

	got.Skills[0] = "changed"
	assert.Equal(t, "Programming", in.Skills[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssessment_Error(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO student_assessments`).WillReturnError(errors.New("connection reset"))

	_, err := store.CreateAssessment(context.Background(), "user-1", models.AssessmentInput{StudentLevel: models.LevelSchool10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert assessment")
}

func TestLatestAssessment(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM student_assessments\s+WHERE user_id = \$1\s+ORDER BY created_at DESC\s+LIMIT 1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(assessmentRowColumns).
			AddRow("a-1", "user-1", "ug", nil, nil, "{Programming,Analytics}", "{Technology}", nil, created))

	got, err := store.LatestAssessment(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, models.LevelUG, got.StudentLevel)
	assert.Equal(t, models.Stream(""), got.Stream)
	assert.Equal(t, models.DefaultMarks, got.MarksPercentage)
	assert.Equal(t, []string{"Programming", "Analytics"}, got.Skills)
	assert.Equal(t, []string{"Technology"}, got.Interests)
}

func TestLatestAssessment_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM student_assessments`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(assessmentRowColumns))

	_, err := store.LatestAssessment(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessmentHistory_DefaultLimit(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`FROM student_assessments`).
		WithArgs("user-1", 20).
		WillReturnRows(sqlmock.NewRows(assessmentRowColumns).
			AddRow("a-2", "user-1", "pg", "management", 71, "{}", "{}", "Delhi", created).
			AddRow("a-1", "user-1", "ug", "management", 65, "{}", "{}", "Delhi", created.Add(-time.Hour)))

	history, err := store.AssessmentHistory(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "a-2", history[0].ID)
	assert.Equal(t, models.StreamManagement, history[0].Stream)
}

var careerRowColumns = []string{
	"id", "title", "category", "description", "skills_required", "required_stream",
	"required_degree", "avg_salary_min", "avg_salary_max", "growth_outlook",
}

func TestListCareerPaths(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM career_paths\s+ORDER BY title`).
		WillReturnRows(sqlmock.NewRows(careerRowColumns).
			AddRow("c-1", "Data Scientist", "technology", "Models data", "{Python,Statistics}", "science", "B.Tech", 600000, 2500000, "excellent").
			AddRow("c-2", "Lawyer", "law", nil, nil, nil, nil, nil, nil, nil))

	careers, err := store.ListCareerPaths(context.Background())
	require.NoError(t, err)
	require.Len(t, careers, 2)

	assert.Equal(t, []string{"Python", "Statistics"}, careers[0].SkillsRequired)
	assert.Equal(t, models.StreamScience, careers[0].RequiredStream)
	require.NotNil(t, careers[0].AvgSalaryMin)
	assert.Equal(t, int64(600000), *careers[0].AvgSalaryMin)
	assert.Equal(t, models.OutlookExcellent, careers[0].GrowthOutlook)

	assert.Empty(t, careers[1].SkillsRequired)
	assert.NotNil(t, careers[1].SkillsRequired)
	assert.Nil(t, careers[1].AvgSalaryMax)
}

func TestGetCareerPath_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM career_paths\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(careerRowColumns))

	_, err := store.GetCareerPath(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListColleges_Filters(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM colleges WHERE (name ILIKE $1 OR city ILIKE $2) AND type = $3 ORDER BY name LIMIT $4`)).
		WithArgs("%iit%", "%iit%", "government", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "city", "state", "area", "address", "type", "website", "email", "phone",
			"established_year", "description",
		}).AddRow("col-1", "IIT Bombay", "Mumbai", "Maharashtra", nil, nil, "government", nil, nil, nil, 1958, nil))

	colleges, err := store.ListColleges(context.Background(), models.CatalogFilter{Query: " IIT ", Type: "government"}, 0)
	require.NoError(t, err)
	require.Len(t, colleges, 1)
	assert.Equal(t, models.CollegeGovernment, colleges[0].Type)
	require.NotNil(t, colleges[0].EstablishedYear)
	assert.Equal(t, 1958, *colleges[0].EstablishedYear)
}

func TestListCompanies_NoFilters(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM companies ORDER BY name LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "industry", "city", "state", "address", "company_size", "website", "email",
			"phone", "founded_year", "description",
		}).AddRow("co-1", "Infosys", "IT Services", "Bengaluru", "Karnataka", nil, "mnc", nil, nil, nil, nil, nil))

	companies, err := store.ListCompanies(context.Background(), models.CatalogFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, models.CompanyMNC, companies[0].Size)
	assert.Nil(t, companies[0].FoundedYear)
}

func TestGetProfile(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM profiles\s+WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "city", "student_level"}).
			AddRow("user-1", "Asha Rao", "asha@example.com", "Pune", "school_12"))

	p, err := store.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", p.FullName)
	assert.Equal(t, models.LevelSchool12, p.StudentLevel)
}

func TestSaveChatMessages(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(sqlmock.AnyArg(), "user-1", "user", "Which stream after 10th?", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(sqlmock.AnyArg(), "user-1", "assistant", "Science keeps options open.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stored, err := store.SaveChatMessages(context.Background(), "user-1",
		models.ChatMessage{Role: models.ChatRoleUser, Content: "Which stream after 10th?"},
		models.ChatMessage{Role: models.ChatRoleAssistant, Content: "Science keeps options open."},
	)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveChatMessages_RollsBack(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO chat_messages`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := store.SaveChatMessages(context.Background(), "user-1",
		models.ChatMessage{Role: models.ChatRoleUser, Content: "hi"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatHistory(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`FROM chat_messages`).
		WithArgs("user-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "content", "created_at"}).
			AddRow("m-1", "user-1", "user", "hello", now).
			AddRow("m-2", "user-1", "assistant", "hi there", now.Add(time.Second)))

	history, err := store.ChatHistory(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ChatRoleAssistant, history[1].Role)
}
