// internal/repository/assessments.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"career-workers/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const assessmentColumns = `id, user_id, student_level, stream, marks_percentage, skills, interests, preferred_city, created_at`

// CreateAssessment inserts a submitted assessment. The record id and creation
// time are assigned here; the input slices are copied, never retained.
func (s *Store) CreateAssessment(ctx context.Context, userID string, in models.AssessmentInput) (models.AssessmentProfile, error) {
	skills := append([]string{}, in.Skills...)
	interests := append([]string{}, in.Interests...)

	id := uuid.New().String()
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO student_assessments (
			id, user_id, student_level, stream, marks_percentage,
			skills, interests, preferred_city, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		id, userID, string(in.StudentLevel), nullString(string(in.Stream)), in.MarksPercentage,
		pq.Array(skills), pq.Array(interests), nullString(in.PreferredCity), time.Now().UTC(),
	).Scan(&createdAt)
	if err != nil {
		return models.AssessmentProfile{}, fmt.Errorf("insert assessment: %w", err)
	}

	return models.AssessmentProfile{
		ID:              id,
		UserID:          userID,
		StudentLevel:    in.StudentLevel,
		Stream:          in.Stream,
		MarksPercentage: in.MarksPercentage,
		Skills:          skills,
		Interests:       interests,
		PreferredCity:   in.PreferredCity,
		CreatedAt:       timestamp(createdAt),
	}, nil
}

func (s *Store) GetAssessment(ctx context.Context, id string) (models.AssessmentProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM student_assessments
		WHERE id = $1`, id)
	return scanAssessment(row)
}

// LatestAssessment returns the user's most recent assessment.
func (s *Store) LatestAssessment(ctx context.Context, userID string) (models.AssessmentProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM student_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID)
	return scanAssessment(row)
}

// AssessmentHistory lists the user's assessments, newest first.
func (s *Store) AssessmentHistory(ctx context.Context, userID string, limit int) ([]models.AssessmentProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM student_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.AssessmentProfile{}
	for rows.Next() {
		p, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func scanAssessment(row rowScanner) (models.AssessmentProfile, error) {
	var (
		p         models.AssessmentProfile
		level     string
		stream    sql.NullString
		marks     sql.NullInt64
		city      sql.NullString
		createdAt time.Time
	)
	p.Skills = []string{}
	p.Interests = []string{}

	err := row.Scan(&p.ID, &p.UserID, &level, &stream, &marks,
		pq.Array(&p.Skills), pq.Array(&p.Interests), &city, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AssessmentProfile{}, ErrNotFound
	}
	if err != nil {
		return models.AssessmentProfile{}, err
	}

	p.StudentLevel = models.StudentLevel(level)
	p.Stream = models.Stream(stream.String)
	p.MarksPercentage = models.DefaultMarks
	if marks.Valid {
		p.MarksPercentage = int(marks.Int64)
	}
	p.PreferredCity = city.String
	p.CreatedAt = timestamp(createdAt)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return p, nil
}
