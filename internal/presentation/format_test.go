package presentation

import (
	"testing"

	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{amount: 0, expected: "₹0"},
		{amount: 999, expected: "₹999"},
		{amount: 45000, expected: "₹45,000"},
		{amount: 99999, expected: "₹99,999"},
		{amount: 100000, expected: "₹1.0L"},
		{amount: 115000, expected: "₹1.1L"},
		{amount: 125000, expected: "₹1.3L"},
		{amount: 350000, expected: "₹3.5L"},
		{amount: 1125000, expected: "₹11.3L"},
		{amount: 1175000, expected: "₹11.8L"},
		{amount: 1200000, expected: "₹12.0L"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSalary(tt.amount))
		})
	}
}

func TestSalaryRange(t *testing.T) {
	assert.Equal(t, "", SalaryRange(nil, int64Ptr(500000)))
	assert.Equal(t, "₹3.0L", SalaryRange(int64Ptr(300000), nil))
	assert.Equal(t, "₹60,000 – ₹1.5L", SalaryRange(int64Ptr(60000), int64Ptr(150000)))
}

func TestOutlookBadge(t *testing.T) {
	assert.Equal(t, "bg-emerald-100 text-emerald-700", OutlookBadge(models.OutlookExcellent))
	assert.Equal(t, "bg-blue-100 text-blue-700", OutlookBadge(models.OutlookGood))
	assert.Equal(t, "bg-amber-100 text-amber-700", OutlookBadge(models.OutlookModerate))
	assert.Equal(t, "bg-red-100 text-red-700", OutlookBadge(models.OutlookDeclining))
	assert.Equal(t, "bg-muted text-muted-foreground", OutlookBadge("stagnant"))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "10th Grade", LevelLabel(models.LevelSchool10))
	assert.Equal(t, "12th Grade", LevelLabel(models.LevelSchool12))
	assert.Equal(t, "Undergraduate", LevelLabel(models.LevelUG))
	assert.Equal(t, "Postgraduate", LevelLabel(models.LevelPG))
	assert.Equal(t, "Student", LevelLabel(""))
}

func TestCards(t *testing.T) {
	ranked := []models.ScoredCareerPath{
		{
			CareerPath: models.CareerPath{
				ID:            "c1",
				GrowthOutlook: models.OutlookGood,
				AvgSalaryMin:  int64Ptr(400000),
				AvgSalaryMax:  int64Ptr(1200000),
			},
			Score: 85,
		},
		{CareerPath: models.CareerPath{ID: "c2"}, Score: 0},
	}

	cards := Cards(ranked)
	require.Len(t, cards, 2)

	assert.Equal(t, 1, cards[0].Rank)
	assert.Equal(t, "₹4.0L – ₹12.0L", cards[0].SalaryRange)
	assert.Equal(t, "bg-blue-100 text-blue-700", cards[0].OutlookBadge)
	assert.InDelta(t, 102.0, cards[0].ScoreHue, 0.0001)

	assert.Equal(t, 2, cards[1].Rank)
	assert.Empty(t, cards[1].SalaryRange)
	assert.Empty(t, cards[1].OutlookBadge)
	assert.Equal(t, 0.0, cards[1].ScoreHue)
}
