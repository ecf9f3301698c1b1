// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file seeds demo configuration so a fresh database can
// be exercised end to end.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// Demo assessment type codes created by SeedDemo.
const (
	DemoQuestionnaireCode = "demo-ipc"
	DemoLegacyCode        = "demo-quality"
	DemoCommodityCode     = "demo-commodities"
)

type seedQuestion struct {
	code, text string
	rt         domain.ResponseType
	scoring    datatypes.JSONMap
	scored     bool
}

type seedSection struct {
	code, name string
	scored     bool
	questions  []seedQuestion
}

var yesNo = datatypes.JSONMap{"yes": 1, "no": 0}

var demoSections = []seedSection{
	{code: "HH", name: "Hand hygiene", scored: true, questions: []seedQuestion{
		{"HH1", "Is soap available at every sink?", domain.ResponseYesNo, yesNo, true},
		{"HH2", "Are alcohol rubs present at point of care?", domain.ResponseYesNoPartial, datatypes.JSONMap{"yes": 1, "partial": 0.5, "no": 0}, true},
		{"HH3", "Hand-washing stations per ward", domain.ResponseMatrix, yesNo, true},
	}},
	{code: "WM", name: "Waste management", scored: true, questions: []seedQuestion{
		{"WM1", "Are sharps containers used?", domain.ResponseYesNo, yesNo, true},
		{"WM2", "Segregation practice observed", domain.ResponseRadio, datatypes.JSONMap{"full": 1, "partial": 0.5, "none": 0, "not_observed": nil}, true},
	}},
	{code: "GEN", name: "General information", scored: false, questions: []seedQuestion{
		{"GEN1", "Name of the person in charge", domain.ResponseText, nil, false},
	}},
}

// SeedDemo creates demo assessment types, questionnaire configuration and a
// commodity grid. It is idempotent: types that already exist are skipped.
func SeedDemo(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedQuestionnaire(ctx, tx, DemoQuestionnaireCode, "Infection prevention walk-through", domain.PolicyThreeTier); err != nil {
			return err
		}
		if err := seedQuestionnaire(ctx, tx, DemoLegacyCode, "Quality of care review", domain.PolicyFiveTier); err != nil {
			return err
		}
		return seedCommodities(ctx, tx)
	})
}

func typeExists(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	_, err := GetAssessmentTypeByCode(ctx, tx, code)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func seedQuestionnaire(ctx context.Context, tx *gorm.DB, code, name string, policy domain.GradingPolicy) error {
	ok, err := typeExists(ctx, tx, code)
	if err != nil || ok {
		return err
	}
	t := &domain.AssessmentType{Code: code, Name: name, GradingPolicy: policy, ScoringMode: domain.ModeQuestionnaire}
	if err := CreateAssessmentType(ctx, tx, t); err != nil {
		return err
	}
	for i, s := range demoSections {
		sec := &domain.Section{
			ID: uuid.NewString(), AssessmentTypeID: t.ID, Code: s.code, Name: s.name,
			SortOrder: i + 1, IsScored: s.scored, IsActive: true,
		}
		if err := tx.WithContext(ctx).Create(sec).Error; err != nil {
			return err
		}
		for j, q := range s.questions {
			row := &domain.Question{
				ID: uuid.NewString(), SectionID: sec.ID, Code: q.code, Text: q.text,
				ResponseType: q.rt, IsScored: q.scored, IsActive: true, SortOrder: j + 1, ScoringMap: q.scoring,
			}
			if err := tx.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedCommodities(ctx context.Context, tx *gorm.DB) error {
	ok, err := typeExists(ctx, tx, DemoCommodityCode)
	if err != nil || ok {
		return err
	}
	t := &domain.AssessmentType{
		Code: DemoCommodityCode, Name: "Health product availability",
		GradingPolicy: domain.PolicyThreeTier, ScoringMode: domain.ModeCommodity,
	}
	if err := CreateAssessmentType(ctx, tx, t); err != nil {
		return err
	}

	depts := []*domain.Department{
		{ID: uuid.NewString(), Code: "MAT", Name: "Maternity", IsActive: true},
		{ID: uuid.NewString(), Code: "OPD", Name: "Outpatient", IsActive: true},
	}
	for _, d := range depts {
		if err := tx.WithContext(ctx).Create(d).Error; err != nil {
			return err
		}
	}

	grid := []struct {
		category string
		items    []string
	}{
		{"Tracer medicines", []string{"Oxytocin", "Amoxicillin", "Oral rehydration salts", "Paracetamol"}},
		{"Equipment", []string{"Blood pressure cuff", "Thermometer", "Delivery kit"}},
	}
	for i, g := range grid {
		cat := &domain.CommodityCategory{ID: uuid.NewString(), Name: g.category, SortOrder: i + 1, IsActive: true}
		if err := tx.WithContext(ctx).Create(cat).Error; err != nil {
			return err
		}
		for j, name := range g.items {
			c := &domain.Commodity{ID: uuid.NewString(), CategoryID: cat.ID, Name: name, IsActive: true}
			if err := tx.WithContext(ctx).Create(c).Error; err != nil {
				return err
			}
			// Maternity stocks everything; outpatient skips the last item of each category.
			for k, d := range depts {
				if k == 1 && j == len(g.items)-1 {
					continue
				}
				link := &domain.CommodityApplicability{CommodityID: c.ID, DepartmentID: d.ID}
				if err := tx.WithContext(ctx).Create(link).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}
