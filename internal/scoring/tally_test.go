package scoring

import (
	"testing"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func f64(v float64) *float64 { return &v }

func TestTallySection_UnansweredQuestionCountsTowardMax(t *testing.T) {
	qs := []domain.Question{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}}
	rs := []domain.Response{
		{QuestionID: "q1", ResponseValue: strp("yes"), Score: f64(1)},
		{QuestionID: "q2", ResponseValue: strp("yes"), Score: f64(1)},
	}
	got := TallySection(qs, rs)
	if got.MaxScore != 3 || got.AnsweredQuestions != 2 || got.SkippedQuestions != 1 {
		t.Fatalf("counts: %+v", got)
	}
	if got.TotalScore != 2 || got.Percentage != 66.67 {
		t.Fatalf("score: %+v", got)
	}
	if got.AnsweredQuestions+got.SkippedQuestions != int(got.MaxScore) {
		t.Fatalf("answered+skipped must equal max: %+v", got)
	}
}

func TestTallySection_MatrixAverages(t *testing.T) {
	qs := []domain.Question{{ID: "m", ResponseType: domain.ResponseMatrix}}
	rs := []domain.Response{
		{QuestionID: "m", Location: "A", ResponseValue: strp("yes"), Score: f64(1)},
		{QuestionID: "m", Location: "B", ResponseValue: strp("no"), Score: f64(0)},
		{QuestionID: "m", Location: "C", ResponseValue: strp("huh"), Score: nil},
	}
	got := TallySection(qs, rs)
	if got.TotalScore != 0.5 || got.MaxScore != 1 {
		t.Fatalf("matrix: %+v", got)
	}
	if got.AnsweredQuestions != 1 || got.SkippedQuestions != 0 {
		t.Fatalf("matrix counts: %+v", got)
	}
	if got.Percentage != 50 {
		t.Fatalf("matrix pct: %v", got.Percentage)
	}
}

func TestTallySection_UnmappedAnsweredStillInMax(t *testing.T) {
	qs := []domain.Question{{ID: "q1"}, {ID: "q2"}}
	rs := []domain.Response{
		{QuestionID: "q1", ResponseValue: strp("maybe"), Score: nil},
		{QuestionID: "q2", ResponseValue: strp("yes"), Score: f64(1)},
		{QuestionID: "other", ResponseValue: strp("yes"), Score: f64(5)},
	}
	got := TallySection(qs, rs)
	if got.TotalScore != 1 || got.MaxScore != 2 || got.AnsweredQuestions != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestTallySection_Empty(t *testing.T) {
	got := TallySection(nil, nil)
	if got.MaxScore != 0 || got.Percentage != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestSumSections_IsStraightSum(t *testing.T) {
	rows := []domain.SectionScore{
		{TotalScore: 1, MaxScore: 1, Percentage: 100},
		{TotalScore: 0, MaxScore: 3, Percentage: 0},
	}
	got := SumSections(rows)
	// averaging the percentages would give 50
	if got.Score != 1 || got.MaxScore != 4 || got.Percentage != 25 {
		t.Fatalf("got %+v", got)
	}
	if s := SumTallies([]SectionTally{{TotalScore: 1, MaxScore: 1}, {TotalScore: 0, MaxScore: 3}}); s != got {
		t.Fatalf("SumTallies = %+v; want %+v", s, got)
	}
}

func TestTallyAvailability_DenominatorIsApplicableSet(t *testing.T) {
	ids := []string{"c1", "c2", "c3", "c4", "c5"}
	rs := []domain.CommodityResponse{
		{CommodityID: "c1", Available: true},
		{CommodityID: "c2", Available: true},
		{CommodityID: "c2", Available: true},
		{CommodityID: "x9", Available: true},
	}
	got := TallyAvailability(ids, rs)
	if got.AvailableCount != 2 || got.TotalApplicable != 5 || got.Percentage != 40 {
		t.Fatalf("got %+v", got)
	}
	if got.Grade == nil || *got.Grade != domain.GradeRed {
		t.Fatalf("expected red, got %v", got.Grade)
	}

	none := TallyAvailability(ids, nil)
	if none.Percentage != 0 || none.Grade != nil {
		t.Fatalf("expected nil grade at 0%%, got %+v", none)
	}
}

func TestCombine(t *testing.T) {
	a := TallyAvailability([]string{"c1", "c2"}, []domain.CommodityResponse{{CommodityID: "c1", Available: true}, {CommodityID: "c2", Available: true}})
	b := TallyAvailability([]string{"c3", "c4", "c5"}, nil)
	got := Combine(a, b)
	if got.AvailableCount != 2 || got.TotalApplicable != 5 || got.Percentage != 40 {
		t.Fatalf("got %+v", got)
	}
	if empty := Combine(); empty.TotalApplicable != 0 || empty.Grade != nil {
		t.Fatalf("empty combine: %+v", empty)
	}
}
