// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read helpers for the questionnaire
// configuration: sections and questions. The scoring engine never writes
// these tables.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// GetSection fetches a section by ID.
func GetSection(ctx context.Context, db *gorm.DB, id string) (*domain.Section, error) {
	var s domain.Section
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListScoredSections returns the active, scored sections of an assessment
// type in display order.
func ListScoredSections(ctx context.Context, db *gorm.DB, typeID string) ([]domain.Section, error) {
	var out []domain.Section
	err := db.WithContext(ctx).
		Where("assessment_type_id = ? AND is_scored = ? AND is_active = ?", typeID, true, true).
		Order("sort_order").Order("id").
		Find(&out).Error
	return out, err
}

// ListScoredQuestions returns the active, scored questions of a section.
func ListScoredQuestions(ctx context.Context, db *gorm.DB, sectionID string) ([]domain.Question, error) {
	var out []domain.Question
	err := db.WithContext(ctx).
		Where("section_id = ? AND is_scored = ? AND is_active = ?", sectionID, true, true).
		Order("sort_order").Order("id").
		Find(&out).Error
	return out, err
}

// GetQuestions loads the given questions keyed by ID. Unknown IDs are
// simply absent from the result.
func GetQuestions(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Question, error) {
	out := make(map[string]domain.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Question
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, q := range rows {
		out[q.ID] = q
	}
	return out, nil
}
