package services

import (
	"context"
	"strings"
	"testing"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func TestAssessmentService_Create(t *testing.T) {
	db := newTestDB(t)
	seedQuestionnaire(t, db, domain.PolicyThreeTier)
	e := newTestEngine(db, nil)
	s := NewAssessmentService(db, e.Repo, e)
	s.FacilityMaxLen = 10
	ctx := context.Background()

	byCode, err := s.Create(ctx, "ipc", "  District   Hospital North ", "u9")
	if err != nil {
		t.Fatalf("Create by code: %v", err)
	}
	if byCode.AssessmentTypeID != "t1" || byCode.Status != domain.StatusDraft {
		t.Fatalf("created = %+v", byCode)
	}
	if byCode.FacilityName != "District H" {
		t.Fatalf("facility = %q, want clipped %q", byCode.FacilityName, "District H")
	}

	byID, err := s.Create(ctx, "t1", "Clinic", "u9")
	if err != nil || byID.AssessmentTypeID != "t1" {
		t.Fatalf("Create by id: %v %v", byID, err)
	}

	if _, err := s.Create(ctx, "nope", "Clinic", "u9"); err != ErrAssessmentTypeNotFound {
		t.Fatalf("unknown type: %v", err)
	}
	if _, err := s.Create(ctx, "ipc", "   ", "u9"); err != ErrInvalidAssessment {
		t.Fatalf("blank facility: %v", err)
	}
}

func TestAssessmentService_GetAndListPage(t *testing.T) {
	db := newTestDB(t)
	seedQuestionnaire(t, db, domain.PolicyThreeTier)
	mustCreate(t, db,
		&domain.Assessment{ID: "a2", AssessmentTypeID: "t1", FacilityName: "B", AssessorID: "u1", Status: domain.StatusInProgress},
		&domain.Assessment{ID: "a3", AssessmentTypeID: "t1", FacilityName: "C", AssessorID: "u1", Status: domain.StatusInProgress},
	)
	e := newTestEngine(db, nil)
	s := NewAssessmentService(db, e.Repo, e)
	ctx := context.Background()

	if _, err := s.Get(ctx, "nope"); err != ErrAssessmentNotFound {
		t.Fatalf("Get missing: %v", err)
	}

	items, total, err := s.ListPage(ctx, "", 0, 0)
	if err != nil || total != 3 || len(items) != 3 {
		t.Fatalf("all: items=%d total=%d err=%v", len(items), total, err)
	}
	items, total, err = s.ListPage(ctx, string(domain.StatusInProgress), 2, 1)
	if err != nil || total != 2 || len(items) != 1 {
		t.Fatalf("page 2: items=%d total=%d err=%v", len(items), total, err)
	}
	items, total, err = s.ListPage(ctx, string(domain.StatusCompleted), 1, 10)
	if err != nil || total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("empty: items=%v total=%d err=%v", items, total, err)
	}

	n, latest, err := s.Stats(ctx, "")
	if err != nil || n != 3 || latest == nil {
		t.Fatalf("Stats: n=%d latest=%v err=%v", n, latest, err)
	}
}

func TestAssessmentService_Complete(t *testing.T) {
	db := newTestDB(t)
	seedQuestionnaire(t, db, domain.PolicyThreeTier)
	insertResponse(t, db, "a1", "q1", "", strp("yes"), f64(1))
	insertResponse(t, db, "a1", "q2", "", strp("yes"), f64(1))
	insertResponse(t, db, "a1", "q3", "", strp("yes"), f64(1))
	e := newTestEngine(db, nil)
	s := NewAssessmentService(db, e.Repo, e)
	ctx := context.Background()

	a, err := s.Complete(ctx, "a1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if a.Status != domain.StatusCompleted || a.CompletedAt == nil {
		t.Fatalf("not completed: %+v", a)
	}
	// s1: 3/3, s2: 0/2.
	if *a.OverallPercentage != 60 || *a.OverallGrade != domain.GradeYellow {
		t.Fatalf("overall = %v %v", *a.OverallPercentage, *a.OverallGrade)
	}
	if _, err := s.Complete(ctx, "a1"); err != ErrAssessmentCompleted {
		t.Fatalf("second Complete: %v", err)
	}
	if _, err := s.Complete(ctx, "nope"); err != ErrAssessmentNotFound {
		t.Fatalf("missing: %v", err)
	}
}

func TestAssessmentService_Recalculate(t *testing.T) {
	db := newTestDB(t)
	seedQuestionnaire(t, db, domain.PolicyThreeTier)
	e := newTestEngine(db, nil)
	s := NewAssessmentService(db, e.Repo, e)

	a, res, err := s.Recalculate(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	// Scored sections with no responses still produce rows worth zero.
	if res == nil || res.MaxScore != 5 || res.Score != 0 || *res.Grade != domain.GradeRed {
		t.Fatalf("result = %+v", res)
	}
	if a == nil || a.OverallScore == nil {
		t.Fatalf("assessment not refreshed")
	}
	if _, _, err := s.Recalculate(context.Background(), "nope"); err != ErrAssessmentNotFound {
		t.Fatalf("missing: %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := normalizeName("  a \t b\n c "); got != "a b c" {
		t.Fatalf("normalizeName = %q", got)
	}
	if got := normalizeName(strings.Repeat(" ", 3)); got != "" {
		t.Fatalf("blank = %q", got)
	}
}
