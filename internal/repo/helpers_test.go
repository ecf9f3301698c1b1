package repo

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
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
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := AutoMigrate(db); err != nil {
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

// seedSectionFixture creates a three-tier type "t1" with scored section "s1"
// (q1, q2 scored and active; q3 inactive; q4 unscored) and draft assessment "a1".
func seedSectionFixture(t *testing.T, db *gorm.DB) {
	t.Helper()
	yn := datatypes.JSONMap{"yes": 1, "no": 0}
	mustCreate(t, db,
		&domain.AssessmentType{ID: "t1", Code: "t1", Name: "T1", GradingPolicy: domain.PolicyThreeTier, ScoringMode: domain.ModeQuestionnaire},
		&domain.Section{ID: "s1", AssessmentTypeID: "t1", Code: "S1", Name: "One", SortOrder: 2, IsScored: true, IsActive: true},
		&domain.Section{ID: "s0", AssessmentTypeID: "t1", Code: "S0", Name: "Zero", SortOrder: 1, IsScored: true, IsActive: true},
		&domain.Section{ID: "s2", AssessmentTypeID: "t1", Code: "S2", Name: "Info", SortOrder: 3, IsScored: false, IsActive: true},
		&domain.Question{ID: "q1", SectionID: "s1", Code: "Q1", Text: "one", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: true, SortOrder: 1, ScoringMap: yn},
		&domain.Question{ID: "q2", SectionID: "s1", Code: "Q2", Text: "two", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: true, SortOrder: 2, ScoringMap: yn},
		&domain.Question{ID: "q3", SectionID: "s1", Code: "Q3", Text: "three", ResponseType: domain.ResponseYesNo, IsScored: true, IsActive: false, SortOrder: 3, ScoringMap: yn},
		&domain.Question{ID: "q4", SectionID: "s1", Code: "Q4", Text: "four", ResponseType: domain.ResponseText, IsScored: false, IsActive: true, SortOrder: 4},
		&domain.Assessment{ID: "a1", AssessmentTypeID: "t1", FacilityName: "Clinic", AssessorID: "u1", Status: domain.StatusDraft},
	)
}

// seedGridFixture creates department "d1", category "cat1" with commodities
// c1..c3 (c3 inactive) applicable to d1, c4 in cat1 not applicable to d1,
// and c5 in "cat2" applicable to d1.
func seedGridFixture(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustCreate(t, db,
		&domain.Department{ID: "d1", Code: "D1", Name: "Maternity", IsActive: true},
		&domain.Department{ID: "d2", Code: "D2", Name: "Archive", IsActive: false},
		&domain.CommodityCategory{ID: "cat1", Name: "Medicines", SortOrder: 1, IsActive: true},
		&domain.CommodityCategory{ID: "cat2", Name: "Equipment", SortOrder: 2, IsActive: true},
		&domain.Commodity{ID: "c1", CategoryID: "cat1", Name: "Oxytocin", IsActive: true},
		&domain.Commodity{ID: "c2", CategoryID: "cat1", Name: "Amoxicillin", IsActive: true},
		&domain.Commodity{ID: "c3", CategoryID: "cat1", Name: "Retired", IsActive: false},
		&domain.Commodity{ID: "c4", CategoryID: "cat1", Name: "Elsewhere", IsActive: true},
		&domain.Commodity{ID: "c5", CategoryID: "cat2", Name: "Thermometer", IsActive: true},
		&domain.CommodityApplicability{CommodityID: "c1", DepartmentID: "d1"},
		&domain.CommodityApplicability{CommodityID: "c2", DepartmentID: "d1"},
		&domain.CommodityApplicability{CommodityID: "c3", DepartmentID: "d1"},
		&domain.CommodityApplicability{CommodityID: "c5", DepartmentID: "d1"},
	)
}
