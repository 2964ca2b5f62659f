// internal/repository/catalog.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"career-workers/internal/models"
)

type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, args ...interface{}) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func likePattern(v string) string {
	return "%" + strings.TrimSpace(v) + "%"
}

// ListColleges filters by name or city (Query), city substring and exact type.
func (s *Store) ListColleges(ctx context.Context, f models.CatalogFilter, limit int) ([]models.College, error) {
	var w whereBuilder
	if strings.TrimSpace(f.Query) != "" {
		w.add("(name ILIKE ? OR city ILIKE ?)", likePattern(f.Query), likePattern(f.Query))
	}
	if strings.TrimSpace(f.City) != "" {
		w.add("city ILIKE ?", likePattern(f.City))
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	args := append(w.args, clampLimit(limit, 50, 200))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, city, state, area, address, type, website, email, phone,
		       established_year, description
		FROM colleges`+w.String()+`
		ORDER BY name
		LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colleges := []models.College{}
	for rows.Next() {
		var (
			c                                   models.College
			state, area, address, kind, website sql.NullString
			email, phone, description           sql.NullString
			established                         sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &state, &area, &address, &kind,
			&website, &email, &phone, &established, &description); err != nil {
			return nil, err
		}
		c.State = state.String
		c.Area = area.String
		c.Address = address.String
		c.Type = models.CollegeType(kind.String)
		c.Website = website.String
		c.Email = email.String
		c.Phone = phone.String
		c.EstablishedYear = nullIntPtr(established)
		c.Description = description.String
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

// ListCompanies filters by name, industry or city (Query), city substring and
// exact industry.
func (s *Store) ListCompanies(ctx context.Context, f models.CatalogFilter, limit int) ([]models.Company, error) {
	var w whereBuilder
	if strings.TrimSpace(f.Query) != "" {
		p := likePattern(f.Query)
		w.add("(name ILIKE ? OR industry ILIKE ? OR city ILIKE ?)", p, p, p)
	}
	if strings.TrimSpace(f.City) != "" {
		w.add("city ILIKE ?", likePattern(f.City))
	}
	if f.Industry != "" {
		w.add("industry = ?", f.Industry)
	}
	args := append(w.args, clampLimit(limit, 50, 200))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, industry, city, state, address, company_size, website, email,
		       phone, founded_year, description
		FROM companies`+w.String()+`
		ORDER BY name
		LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var (
			c                             models.Company
			state, address, size, website sql.NullString
			email, phone, description     sql.NullString
			founded                       sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.City, &state, &address, &size,
			&website, &email, &phone, &founded, &description); err != nil {
			return nil, err
		}
		c.State = state.String
		c.Address = address.String
		c.Size = models.CompanySize(size.String)
		c.Website = website.String
		c.Email = email.String
		c.Phone = phone.String
		c.FoundedYear = nullIntPtr(founded)
		c.Description = description.String
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
