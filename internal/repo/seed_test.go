package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func TestSeedDemo_Idempotent(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()

	if err := SeedDemo(ctx, db); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	if err := SeedDemo(ctx, db); err != nil {
		t.Fatalf("SeedDemo again: %v", err)
	}

	var types int64
	db.Model(&domain.AssessmentType{}).Count(&types)
	if types != 3 {
		t.Fatalf("expected 3 types, got %d", types)
	}

	legacy, err := GetAssessmentTypeByCode(ctx, db, DemoLegacyCode)
	if err != nil || legacy.GradingPolicy != domain.PolicyFiveTier {
		t.Fatalf("legacy type = %+v, %v", legacy, err)
	}
	secs, err := ListScoredSections(ctx, db, legacy.ID)
	if err != nil || len(secs) != 2 {
		t.Fatalf("expected 2 scored sections, got %d (%v)", len(secs), err)
	}

	depts, err := ListActiveDepartments(ctx, db)
	if err != nil || len(depts) != 2 {
		t.Fatalf("departments = %d, %v", len(depts), err)
	}
	for _, d := range depts {
		all, err := ApplicableCommodities(ctx, db, d.ID)
		if err != nil {
			t.Fatalf("ApplicableCommodities: %v", err)
		}
		want := 7
		if d.Code == "OPD" {
			want = 5
		}
		if len(all) != want {
			t.Fatalf("%s: expected %d applicable, got %d", d.Code, want, len(all))
		}
	}
}
