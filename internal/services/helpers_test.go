package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, rows ...any) {
	t.Helper()
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("create %T: %v", r, err)
		}
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AssessmentScored
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev AssessmentScored) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestEngine(db *gorm.DB, pub Publisher) *Engine {
	return NewEngine(db, repo.Store{}, NewMemoryLocker(), pub)
}

func strp(s string) *string { return &s }

func f64(v float64) *float64 { return &v }

// seedQuestionnaire creates type "t1" with the given policy:
//
//	s1: q1, q2, q3 scored yes/no
//	s2: m1 scored matrix, q5 scored yes/no
//	s3: q6 unscored text (section not scored)
//
// and draft assessment "a1".
func seedQuestionnaire(t *testing.T, db *gorm.DB, policy domain.GradingPolicy) {
	t.Helper()
	yn := datatypes.JSONMap{"yes": 1, "no": 0, "n/a": nil}
	mustCreate(t, db,
		&domain.AssessmentType{ID: "t1", Code: "ipc", Name: "IPC", GradingPolicy: policy, ScoringMode: domain.ModeQuestionnaire},
		&domain.Section{ID: "s1", AssessmentTypeID: "t1", Code: "HH", Name: "Hand hygiene", SortOrder: 1, IsScored: true, IsActive: true},
		&domain.Section{ID: "s2", AssessmentTypeID: "t1", Code: "WM", Name: "Waste", SortOrder: 2, IsScored: true, IsActive: true},
		&domain.Section{ID: "s3", AssessmentTypeID: "t1", Code: "GEN", Name: "General", SortOrder: 3, IsScored: false, IsActive: true},
		&domain.Question{ID: "q1", SectionID: "s1", Code: "HH1", Text: "one", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: true, SortOrder: 1, ScoringMap: yn},
		&domain.Question{ID: "q2", SectionID: "s1", Code: "HH2", Text: "two", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: true, SortOrder: 2, ScoringMap: yn},
		&domain.Question{ID: "q3", SectionID: "s1", Code: "HH3", Text: "three", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: true, SortOrder: 3, ScoringMap: yn},
		&domain.Question{ID: "m1", SectionID: "s2", Code: "WM1", Text: "bins", ResponseType: domain.ResponseMatrix, IsScored: true, IsActive: true, SortOrder: 1, ScoringMap: yn},
		&domain.Question{ID: "q5", SectionID: "s2", Code: "WM2", Text: "sharps", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: true, SortOrder: 2, ScoringMap: yn},
		&domain.Question{ID: "q6", SectionID: "s3", Code: "GEN1", Text: "notes", ResponseType: domain.ResponseText, IsScored: false, IsActive: true, SortOrder: 1},
		&domain.Assessment{ID: "a1", AssessmentTypeID: "t1", FacilityName: "Clinic", AssessorID: "u1", Status: domain.StatusDraft},
	)
}

// seedGrid creates commodity-mode type "tc", draft assessment "ac",
// department "d1" and:
//
//	cat1: k1..k5 applicable to d1
//	cat2: k6 applicable to d1
//	cat3: k7 applicable to nothing
func seedGrid(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustCreate(t, db,
		&domain.AssessmentType{ID: "tc", Code: "commodities", Name: "Commodities", GradingPolicy: domain.PolicyThreeTier, ScoringMode: domain.ModeCommodity},
		&domain.Assessment{ID: "ac", AssessmentTypeID: "tc", FacilityName: "Clinic", AssessorID: "u1", Status: domain.StatusDraft},
		&domain.Department{ID: "d1", Code: "MAT", Name: "Maternity", IsActive: true},
		&domain.CommodityCategory{ID: "cat1", Name: "Medicines", SortOrder: 1, IsActive: true},
		&domain.CommodityCategory{ID: "cat2", Name: "Equipment", SortOrder: 2, IsActive: true},
		&domain.CommodityCategory{ID: "cat3", Name: "Supplies", SortOrder: 3, IsActive: true},
	)
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("k%d", i)
		mustCreate(t, db,
			&domain.Commodity{ID: id, CategoryID: "cat1", Name: "Medicine " + id, IsActive: true},
			&domain.CommodityApplicability{CommodityID: id, DepartmentID: "d1"},
		)
	}
	mustCreate(t, db,
		&domain.Commodity{ID: "k6", CategoryID: "cat2", Name: "Thermometer", IsActive: true},
		&domain.CommodityApplicability{CommodityID: "k6", DepartmentID: "d1"},
		&domain.Commodity{ID: "k7", CategoryID: "cat3", Name: "Gloves", IsActive: true},
	)
}

// insertResponse writes a response row with a pre-computed score.
func insertResponse(t *testing.T, db *gorm.DB, assessmentID, questionID, location string, value *string, score *float64) {
	t.Helper()
	mustCreate(t, db, &domain.Response{
		ID:            fmt.Sprintf("r-%s-%s-%s", assessmentID, questionID, location),
		AssessmentID:  assessmentID,
		QuestionID:    questionID,
		Location:      location,
		ResponseValue: value,
		Score:         score,
	})
}

func loadAssessment(t *testing.T, db *gorm.DB, id string) domain.Assessment {
	t.Helper()
	var a domain.Assessment
	if err := db.First(&a, "id = ?", id).Error; err != nil {
		t.Fatalf("load assessment %s: %v", id, err)
	}
	return a
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}
