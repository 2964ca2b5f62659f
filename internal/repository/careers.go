// internal/repository/careers.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"career-workers/internal/models"

	"github.com/lib/pq"
)

const careerColumns = `id, title, category, description, skills_required, required_stream,
	required_degree, avg_salary_min, avg_salary_max, growth_outlook`

// ListCareerPaths returns the whole catalog ordered by title.
func (s *Store) ListCareerPaths(ctx context.Context) ([]models.CareerPath, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+careerColumns+`
		FROM career_paths
		ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	careers := []models.CareerPath{}
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, err
		}
		careers = append(careers, c)
	}
	return careers, rows.Err()
}

func (s *Store) GetCareerPath(ctx context.Context, id string) (models.CareerPath, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+careerColumns+`
		FROM career_paths
		WHERE id = $1`, id)
	return scanCareer(row)
}

func scanCareer(row rowScanner) (models.CareerPath, error) {
	var (
		c                           models.CareerPath
		description, stream, degree sql.NullString
		outlook                     sql.NullString
		salaryMin, salaryMax        sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Title, &c.Category, &description, pq.Array(&c.SkillsRequired),
		&stream, &degree, &salaryMin, &salaryMax, &outlook)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CareerPath{}, ErrNotFound
	}
	if err != nil {
		return models.CareerPath{}, err
	}

	c.Description = description.String
	c.RequiredStream = models.Stream(stream.String)
	c.RequiredDegree = degree.String
	c.AvgSalaryMin = nullInt64Ptr(salaryMin)
	c.AvgSalaryMax = nullInt64Ptr(salaryMax)
	c.GrowthOutlook = models.GrowthOutlook(outlook.String)
	if c.SkillsRequired == nil {
		c.SkillsRequired = []string{}
	}
	return c, nil
}
