// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for derived
// SectionScore rows.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// UpsertSectionScore fully replaces the roll-up for (assessment, section).
// A row whose derived fields already match is returned untouched, so
// updated_at only moves when the score does.
func UpsertSectionScore(ctx context.Context, db *gorm.DB, s *domain.SectionScore) (*domain.SectionScore, error) {
	cur, err := GetSectionScore(ctx, db, s.AssessmentID, s.SectionID)
	switch {
	case err == nil && sameSectionScore(cur, s):
		return cur, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}

	now := time.Now().UTC()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt, s.UpdatedAt = now, now

	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assessment_id"}, {Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_score", "max_score", "percentage",
				"total_questions", "answered_questions", "skipped_questions", "updated_at",
			}),
		}).
		Create(s).Error
	if err != nil {
		return nil, err
	}
	return GetSectionScore(ctx, db, s.AssessmentID, s.SectionID)
}

func sameSectionScore(a, b *domain.SectionScore) bool {
	return a.TotalScore == b.TotalScore &&
		a.MaxScore == b.MaxScore &&
		a.Percentage == b.Percentage &&
		a.TotalQuestions == b.TotalQuestions &&
		a.AnsweredQuestions == b.AnsweredQuestions &&
		a.SkippedQuestions == b.SkippedQuestions
}

// GetSectionScore fetches the row for (assessment, section), or ErrNotFound.
func GetSectionScore(ctx context.Context, db *gorm.DB, assessmentID, sectionID string) (*domain.SectionScore, error) {
	var s domain.SectionScore
	err := db.WithContext(ctx).
		Where("assessment_id = ? AND section_id = ?", assessmentID, sectionID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSectionScores returns every SectionScore row of an assessment.
func ListSectionScores(ctx context.Context, db *gorm.DB, assessmentID string) ([]domain.SectionScore, error) {
	var out []domain.SectionScore
	err := db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("section_id").
		Find(&out).Error
	return out, err
}
