package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func TestCreateAndGetAssessment(t *testing.T) {
	db := newSchemaDB(t)
	seedSectionFixture(t, db)
	ctx := context.Background()

	a, err := CreateAssessment(ctx, db, "t1", "Hill Clinic", "u9")
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}
	if a.ID == "" || a.Status != domain.StatusDraft || a.OverallScore != nil {
		t.Fatalf("unexpected assessment: %+v", a)
	}

	got, err := GetAssessmentWithType(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("GetAssessmentWithType: %v", err)
	}
	if got.AssessmentType.GradingPolicy != domain.PolicyThreeTier {
		t.Fatalf("type not preloaded: %+v", got.AssessmentType)
	}

	if _, err := GetAssessment(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetAssessmentForUpdate(ctx, db, a.ID); err != nil {
		t.Fatalf("GetAssessmentForUpdate: %v", err)
	}
}

func TestListAndCountAssessments(t *testing.T) {
	db := newSchemaDB(t)
	seedSectionFixture(t, db) // a1 draft
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := CreateAssessment(ctx, db, "t1", "F", "u1"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	n, err := CountAssessments(ctx, db, "")
	if err != nil || n != 4 {
		t.Fatalf("count all = %d, %v", n, err)
	}
	page, err := ListAssessmentsPage(ctx, db, "", 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("page = %d, %v", len(page), err)
	}

	moved, err := MarkInProgress(ctx, db, "a1")
	if err != nil || !moved {
		t.Fatalf("MarkInProgress = %v, %v", moved, err)
	}
	again, err := MarkInProgress(ctx, db, "a1")
	if err != nil || again {
		t.Fatalf("second MarkInProgress should not transition: %v, %v", again, err)
	}

	ids, err := ListAssessmentIDsByStatus(ctx, db, domain.StatusInProgress)
	if err != nil || len(ids) != 1 || ids[0] != "a1" {
		t.Fatalf("in-progress ids = %v, %v", ids, err)
	}
	n, err = CountAssessments(ctx, db, string(domain.StatusDraft))
	if err != nil || n != 3 {
		t.Fatalf("count draft = %d, %v", n, err)
	}
}

func TestUpdateAssessmentOverall_AndComplete(t *testing.T) {
	db := newSchemaDB(t)
	seedSectionFixture(t, db)
	ctx := context.Background()

	g := domain.GradeYellow
	err := UpdateAssessmentOverall(ctx, db, "a1", OverallUpdate{
		Score: 2, MaxScore: 3, Percentage: 66.67, Grade: &g,
		Metadata: datatypes.JSONMap{"grading_policy": "three_tier"},
	})
	if err != nil {
		t.Fatalf("UpdateAssessmentOverall: %v", err)
	}
	a, _ := GetAssessment(ctx, db, "a1")
	if a.OverallScore == nil || *a.OverallScore != 2 || *a.OverallMaxScore != 3 || *a.OverallPercentage != 66.67 {
		t.Fatalf("overall not written: %+v", a)
	}
	if a.OverallGrade == nil || *a.OverallGrade != domain.GradeYellow {
		t.Fatalf("grade not written: %v", a.OverallGrade)
	}
	if a.Metadata["grading_policy"] != "three_tier" {
		t.Fatalf("metadata not written: %v", a.Metadata)
	}

	if err := UpdateAssessmentOverall(ctx, db, "nope", OverallUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := CompleteAssessment(ctx, db, "a1", at); err != nil {
		t.Fatalf("CompleteAssessment: %v", err)
	}
	a, _ = GetAssessment(ctx, db, "a1")
	if a.Status != domain.StatusCompleted || a.CompletedAt == nil || !a.CompletedAt.Equal(at) {
		t.Fatalf("not completed: %+v", a)
	}
	if err := CompleteAssessment(ctx, db, "nope", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssessmentTypes(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	typ := &domain.AssessmentType{Code: "x", Name: "X", GradingPolicy: domain.PolicyFiveTier, ScoringMode: domain.ModeQuestionnaire}
	if err := CreateAssessmentType(ctx, db, typ); err != nil || typ.ID == "" {
		t.Fatalf("CreateAssessmentType: %v (id=%q)", err, typ.ID)
	}
	got, err := GetAssessmentTypeByCode(ctx, db, "x")
	if err != nil || got.ID != typ.ID {
		t.Fatalf("by code: %+v, %v", got, err)
	}
	if _, err := GetAssessmentType(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
