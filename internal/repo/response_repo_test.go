package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func sp(s string) *string { return &s }

func fp(f float64) *float64 { return &f }

func TestQuestionReads(t *testing.T) {
	db := newSchemaDB(t)
	seedSectionFixture(t, db)
	ctx := context.Background()

	qs, err := ListScoredQuestions(ctx, db, "s1")
	if err != nil {
		t.Fatalf("ListScoredQuestions: %v", err)
	}
	if len(qs) != 2 || qs[0].ID != "q1" || qs[1].ID != "q2" {
		t.Fatalf("expected q1,q2 got %+v", qs)
	}

	secs, err := ListScoredSections(ctx, db, "t1")
	if err != nil {
		t.Fatalf("ListScoredSections: %v", err)
	}
	if len(secs) != 2 || secs[0].ID != "s0" || secs[1].ID != "s1" {
		t.Fatalf("expected s0,s1 in sort order, got %+v", secs)
	}

	byID, err := GetQuestions(ctx, db, []string{"q1", "q4", "zzz"})
	if err != nil || len(byID) != 2 {
		t.Fatalf("GetQuestions = %v, %v", byID, err)
	}
	if _, ok := byID["q4"]; !ok {
		t.Fatalf("expected unscored question to be returned too")
	}
}

func TestUpsertResponse_InsertThenReplace(t *testing.T) {
	db := newSchemaDB(t)
	seedSectionFixture(t, db)
	ctx := context.Background()

	first, err := UpsertResponse(ctx, db, &domain.Response{AssessmentID: "a1", QuestionID: "q1", ResponseValue: sp("no"), Score: fp(0)})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := UpsertResponse(ctx, db, &domain.Response{AssessmentID: "a1", QuestionID: "q1", ResponseValue: sp("yes"), Score: fp(1)})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert must keep the original row id: %s vs %s", first.ID, second.ID)
	}
	if second.ResponseValue == nil || *second.ResponseValue != "yes" || second.Score == nil || *second.Score != 1 {
		t.Fatalf("row not replaced: %+v", second)
	}

	// matrix rows are distinct per location
	for _, loc := range []string{"ward-a", "ward-b"} {
		if _, err := UpsertResponse(ctx, db, &domain.Response{AssessmentID: "a1", QuestionID: "q2", Location: loc, ResponseValue: sp("yes"), Score: fp(1)}); err != nil {
			t.Fatalf("matrix row %s: %v", loc, err)
		}
	}
	rows, err := ListResponsesForQuestions(ctx, db, "a1", []string{"q1", "q2"})
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListResponsesForQuestions = %d, %v", len(rows), err)
	}
	empty, err := ListResponsesForQuestions(ctx, db, "a1", nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no rows for empty id list")
	}
}

func TestUpsertSectionScore_UnchangedKeepsRow(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	row := func() *domain.SectionScore {
		return &domain.SectionScore{AssessmentID: "a1", SectionID: "s1", TotalScore: 1, MaxScore: 3, Percentage: 33.33, TotalQuestions: 3, AnsweredQuestions: 1, SkippedQuestions: 2}
	}

	first, err := UpsertSectionScore(ctx, db, row())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	again, err := UpsertSectionScore(ctx, db, row())
	if err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if again.ID != first.ID || !again.UpdatedAt.Equal(first.UpdatedAt) || !again.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("identical roll-up rewrote the row: first=%+v again=%+v", first, again)
	}

	changed := row()
	changed.TotalScore, changed.Percentage = 2, 66.67
	changed.AnsweredQuestions, changed.SkippedQuestions = 2, 1
	got, err := UpsertSectionScore(ctx, db, changed)
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if got.TotalScore != 2 || got.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("changed roll-up not written: %+v", got)
	}
}

func TestUpsertSectionScore_ReplacesRow(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()

	first, err := UpsertSectionScore(ctx, db, &domain.SectionScore{AssessmentID: "a1", SectionID: "s1", TotalScore: 1, MaxScore: 3, Percentage: 33.33, TotalQuestions: 3, AnsweredQuestions: 1, SkippedQuestions: 2})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := UpsertSectionScore(ctx, db, &domain.SectionScore{AssessmentID: "a1", SectionID: "s1", TotalScore: 2, MaxScore: 3, Percentage: 66.67, TotalQuestions: 3, AnsweredQuestions: 2, SkippedQuestions: 1})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if second.ID != first.ID || second.TotalScore != 2 || second.AnsweredQuestions != 2 {
		t.Fatalf("unexpected row: %+v", second)
	}
	rows, err := ListSectionScores(ctx, db, "a1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListSectionScores = %d, %v", len(rows), err)
	}
}
