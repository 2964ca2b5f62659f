// internal/repository/profiles.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"career-workers/internal/models"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	var (
		p           models.UserProfile
		city, level sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, city, student_level
		FROM profiles
		WHERE user_id = $1`, userID).Scan(&p.UserID, &p.FullName, &p.Email, &city, &level)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	p.City = city.String
	p.StudentLevel = models.StudentLevel(level.String)
	return p, nil
}
