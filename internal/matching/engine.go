// internal/matching/engine.go
package matching

import (
	"sort"
	"strings"

	"career-workers/internal/models"
)

const (
	SkillMatchPoints    = 20
	StreamMatchPoints   = 30
	InterestMatchPoints = 20
	MaxScore            = 100
	DefaultLimit        = 10
)

// MarksTier awards Points when marks are at least Min. Tiers are checked in
// order and only the first hit counts.
type MarksTier struct {
	Min    int
	Points int
}

var MarksTiers = []MarksTier{
	{Min: 85, Points: 15},
	{Min: 70, Points: 10},
	{Min: 55, Points: 5},
}

// CategoryKeywords maps a career category to the keyword searched for in the
// student's joined interests. Categories missing here never earn the interest bonus.
var CategoryKeywords = map[string]string{
	"technology": "tech",
	"medical":    "medicine",
	"management": "business",
	"arts":       "arts",
	"law":        "law",
	"commerce":   "finance",
}

// Breakdown is the per-factor contribution behind a score.
type Breakdown struct {
	MatchedSkills  []string `json:"matchedSkills"`
	SkillPoints    int      `json:"skillPoints"`
	StreamPoints   int      `json:"streamPoints"`
	MarksPoints    int      `json:"marksPoints"`
	InterestPoints int      `json:"interestPoints"`
	Raw            int      `json:"raw"`
	Total          int      `json:"total"`
}

// Score returns the clamped match score of career for profile.
func Score(profile models.AssessmentInput, career models.CareerPath) int {
	return Explain(profile, career).Total
}

// Explain computes every factor of the score independently.
func Explain(profile models.AssessmentInput, career models.CareerPath) Breakdown {
	var b Breakdown

	b.MatchedSkills = matchSkills(profile.Skills, career.SkillsRequired)
	b.SkillPoints = len(b.MatchedSkills) * SkillMatchPoints

	if profile.Stream != "" && career.RequiredStream != "" && profile.Stream == career.RequiredStream {
		b.StreamPoints = StreamMatchPoints
	}

	b.MarksPoints = marksBonus(profile.MarksPercentage)

	if keyword, ok := CategoryKeywords[career.Category]; ok {
		joined := strings.ToLower(strings.Join(profile.Interests, " "))
		if strings.Contains(joined, keyword) {
			b.InterestPoints = InterestMatchPoints
		}
	}

	b.Raw = b.SkillPoints + b.StreamPoints + b.MarksPoints + b.InterestPoints
	b.Total = b.Raw
	if b.Total > MaxScore {
		b.Total = MaxScore
	}
	return b
}

// matchSkills keeps each profile skill that contains, or is contained in,
// any required skill, ignoring case.
func matchSkills(skills, required []string) []string {
	matched := []string{}
	if len(skills) == 0 || len(required) == 0 {
		return matched
	}

	req := make([]string, len(required))
	for i, r := range required {
		req[i] = strings.ToLower(r)
	}

	for _, s := range skills {
		ls := strings.ToLower(s)
		for _, r := range req {
			if strings.Contains(r, ls) || strings.Contains(ls, r) {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

func marksBonus(marks int) int {
	for _, tier := range MarksTiers {
		if marks >= tier.Min {
			return tier.Points
		}
	}
	return 0
}

// Rank scores every career, orders them by score descending and returns the
// first limit entries. Equal scores keep catalog order. A non-positive limit
// means DefaultLimit.
func Rank(profile models.AssessmentInput, careers []models.CareerPath, limit int) []models.ScoredCareerPath {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]models.ScoredCareerPath, 0, len(careers))
	for _, c := range careers {
		scored = append(scored, models.ScoredCareerPath{
			CareerPath: c,
			Score:      Score(profile, c),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
