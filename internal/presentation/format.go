// internal/presentation/format.go
package presentation

import (
	"math/big"

	"career-workers/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const lakh = 100000

var printer = message.NewPrinter(language.English)

// FormatSalary renders rupee amounts: lakh and above as "₹12.5L", smaller
// amounts with thousands separators.
func FormatSalary(amount int64) string {
	if amount >= lakh {
		return "₹" + oneDecimal(float64(amount)/lakh) + "L"
	}
	return printer.Sprintf("₹%d", amount)
}

// oneDecimal rounds a non-negative x to one decimal place from its exact
// binary value, with ties going up (1.25 is "1.3").
func oneDecimal(x float64) string {
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, big.NewRat(10, 1))

	tenths := new(big.Int).Quo(r.Num(), r.Denom())
	rem := new(big.Rat).Sub(r, new(big.Rat).SetInt(tenths))
	if rem.Cmp(big.NewRat(1, 2)) >= 0 {
		tenths.Add(tenths, big.NewInt(1))
	}

	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return whole.String() + "." + frac.String()
}

// SalaryRange returns "min – max", or an empty string when there is no minimum.
func SalaryRange(low, high *int64) string {
	if low == nil {
		return ""
	}
	if high == nil {
		return FormatSalary(*low)
	}
	return FormatSalary(*low) + " – " + FormatSalary(*high)
}

var outlookBadges = map[models.GrowthOutlook]string{
	models.OutlookExcellent: "bg-emerald-100 text-emerald-700",
	models.OutlookGood:      "bg-blue-100 text-blue-700",
	models.OutlookModerate:  "bg-amber-100 text-amber-700",
	models.OutlookDeclining: "bg-red-100 text-red-700",
}

const defaultBadge = "bg-muted text-muted-foreground"

func OutlookBadge(outlook models.GrowthOutlook) string {
	if badge, ok := outlookBadges[outlook]; ok {
		return badge
	}
	return defaultBadge
}

func LevelLabel(level models.StudentLevel) string {
	switch level {
	case models.LevelSchool10:
		return "10th Grade"
	case models.LevelSchool11:
		return "11th Grade"
	case models.LevelSchool12:
		return "12th Grade"
	case models.LevelUG:
		return "Undergraduate"
	case models.LevelPG:
		return "Postgraduate"
	default:
		return "Student"
	}
}

// ScoreHue is the HSL hue used to tint a match percentage.
func ScoreHue(score int) float64 {
	h := float64(score) * 1.2
	if h < 0 {
		return 0
	}
	return h
}

// CareerCard is a ranked career with its display strings resolved.
type CareerCard struct {
	models.ScoredCareerPath
	Rank         int     `json:"rank"`
	SalaryRange  string  `json:"salaryRange,omitempty"`
	OutlookBadge string  `json:"outlookBadge,omitempty"`
	ScoreHue     float64 `json:"scoreHue"`
}

func Cards(ranked []models.ScoredCareerPath) []CareerCard {
	cards := make([]CareerCard, 0, len(ranked))
	for i, r := range ranked {
		card := CareerCard{
			ScoredCareerPath: r,
			Rank:             i + 1,
			SalaryRange:      SalaryRange(r.AvgSalaryMin, r.AvgSalaryMax),
			ScoreHue:         ScoreHue(r.Score),
		}
		if r.GrowthOutlook != "" {
			card.OutlookBadge = OutlookBadge(r.GrowthOutlook)
		}
		cards = append(cards, card)
	}
	return cards
}
