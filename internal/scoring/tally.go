package scoring

import "github.com/tbourn/go-assessment-backend/internal/domain"

// SectionTally is the computed roll-up of one section.
type SectionTally struct {
	TotalScore        float64 `json:"total_score"`
	MaxScore          float64 `json:"max_score"`
	Percentage        float64 `json:"percentage"`
	TotalQuestions    int     `json:"total_questions"`
	AnsweredQuestions int     `json:"answered_questions"`
	SkippedQuestions  int     `json:"skipped_questions"`
}

// TallySection sums pre-computed response scores for the given scored, active
// questions.
//
// Every question is worth one max-score unit whether answered or not. A
// non-matrix question contributes the sum of its row scores; a matrix question
// contributes the average of its non-null location scores. A question counts
// as answered when at least one of its rows carries a non-null value.
// Responses for questions outside the list are ignored.
func TallySection(questions []domain.Question, responses []domain.Response) SectionTally {
	byQuestion := make(map[string][]domain.Response, len(questions))
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
	}

	var t SectionTally
	t.TotalQuestions = len(questions)
	t.MaxScore = float64(len(questions))

	for _, q := range questions {
		rows := byQuestion[q.ID]
		answered := false
		var sum float64
		n := 0
		for _, r := range rows {
			if r.ResponseValue != nil {
				answered = true
			}
			if r.Score != nil {
				sum += *r.Score
				n++
			}
		}
		if answered {
			t.AnsweredQuestions++
		}
		if n == 0 {
			continue
		}
		if q.IsMatrix() {
			t.TotalScore += sum / float64(n)
		} else {
			t.TotalScore += sum
		}
	}

	t.SkippedQuestions = t.TotalQuestions - t.AnsweredQuestions
	t.Percentage = Percentage(t.TotalScore, t.MaxScore)
	return t
}

// Totals is an overall roll-up: straight sums of section scores and maxima,
// with the percentage computed from the sums.
type Totals struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

// SumSections rolls section rows up into assessment totals. Section
// percentages are never averaged.
func SumSections(rows []domain.SectionScore) Totals {
	var t Totals
	for _, r := range rows {
		t.Score += r.TotalScore
		t.MaxScore += r.MaxScore
	}
	t.Percentage = Percentage(t.Score, t.MaxScore)
	return t
}

// SumTallies is SumSections for tallies computed in memory.
func SumTallies(tallies []SectionTally) Totals {
	var t Totals
	for _, s := range tallies {
		t.Score += s.TotalScore
		t.MaxScore += s.MaxScore
	}
	t.Percentage = Percentage(t.Score, t.MaxScore)
	return t
}

// AvailabilityTally is one cell (or roll-up) of the commodity grid.
type AvailabilityTally struct {
	AvailableCount  int           `json:"available_count"`
	TotalApplicable int           `json:"total_applicable"`
	Percentage      float64       `json:"percentage"`
	Grade           *domain.Grade `json:"grade"`
}

// TallyAvailability counts available responses among the applicable
// commodities. The denominator is the applicable set, so a commodity with no
// response row counts as unavailable. Duplicate responses for one commodity
// count once.
func TallyAvailability(applicableIDs []string, responses []domain.CommodityResponse) AvailabilityTally {
	applicable := make(map[string]struct{}, len(applicableIDs))
	for _, id := range applicableIDs {
		applicable[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(responses))
	available := 0
	for _, r := range responses {
		if !r.Available {
			continue
		}
		if _, ok := applicable[r.CommodityID]; !ok {
			continue
		}
		if _, dup := seen[r.CommodityID]; dup {
			continue
		}
		seen[r.CommodityID] = struct{}{}
		available++
	}
	return newAvailability(available, len(applicable))
}

// Combine re-aggregates cells into a department or grand total by summing
// counts and re-deriving percentage and grade.
func Combine(tallies ...AvailabilityTally) AvailabilityTally {
	available, total := 0, 0
	for _, t := range tallies {
		available += t.AvailableCount
		total += t.TotalApplicable
	}
	return newAvailability(available, total)
}

// FromDepartmentScore lifts a stored cell back into a tally.
func FromDepartmentScore(ds domain.DepartmentScore) AvailabilityTally {
	return AvailabilityTally{
		AvailableCount:  ds.AvailableCount,
		TotalApplicable: ds.TotalApplicable,
		Percentage:      ds.Percentage,
		Grade:           ds.Grade,
	}
}

func newAvailability(available, total int) AvailabilityTally {
	pct := Percentage(float64(available), float64(total))
	return AvailabilityTally{
		AvailableCount:  available,
		TotalApplicable: total,
		Percentage:      pct,
		Grade:           AvailabilityGrade(pct),
	}
}
