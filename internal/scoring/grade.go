package scoring

import (
	"math"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// Fixed grading cutoffs, in percent.
const (
	ThreeTierGreen  = 80.0
	ThreeTierYellow = 50.0

	FiveTierExcellent    = 90.0
	FiveTierGood         = 75.0
	FiveTierSatisfactory = 60.0
	FiveTierNeedsWork    = 50.0
)

// Percentage returns 100*score/max rounded to two decimals, or 0 when max is
// not positive.
func Percentage(score, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return Round2(100 * score / max)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ThreeTier grades green at 80 and above, yellow at 50 and above, red below.
func ThreeTier(pct float64) domain.Grade {
	switch {
	case pct >= ThreeTierGreen:
		return domain.GradeGreen
	case pct >= ThreeTierYellow:
		return domain.GradeYellow
	default:
		return domain.GradeRed
	}
}

// FiveTier grades on the 90/75/60/50 ladder.
func FiveTier(pct float64) domain.Grade {
	switch {
	case pct >= FiveTierExcellent:
		return domain.GradeExcellent
	case pct >= FiveTierGood:
		return domain.GradeGood
	case pct >= FiveTierSatisfactory:
		return domain.GradeSatisfactory
	case pct >= FiveTierNeedsWork:
		return domain.GradeNeedsImprovement
	default:
		return domain.GradePoor
	}
}

// Grade maps pct to a grade under policy. Unknown policies fall back to the
// three-tier ladder.
func Grade(policy domain.GradingPolicy, pct float64) domain.Grade {
	if policy == domain.PolicyFiveTier {
		return FiveTier(pct)
	}
	return ThreeTier(pct)
}

// AvailabilityGrade is the three-tier grade used by the commodity grid, except
// that exactly 0% yields nil so "no data" stays distinguishable from failing.
func AvailabilityGrade(pct float64) *domain.Grade {
	if pct == 0 {
		return nil
	}
	g := ThreeTier(pct)
	return &g
}
