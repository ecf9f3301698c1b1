// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for question
// responses.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// UpsertResponse inserts r or, when a row already exists for
// (assessment, question, location), replaces its value, explanation,
// metadata and score. The stored row is returned.
func UpsertResponse(ctx context.Context, db *gorm.DB, r *domain.Response) (*domain.Response, error) {
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt, r.UpdatedAt = now, now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assessment_id"}, {Name: "question_id"}, {Name: "location"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"response_value", "explanation", "metadata", "score", "updated_at",
			}),
		}).
		Create(r).Error
	if err != nil {
		return nil, err
	}
	return GetResponse(ctx, db, r.AssessmentID, r.QuestionID, r.Location)
}

// GetResponse fetches the response for (assessment, question, location).
func GetResponse(ctx context.Context, db *gorm.DB, assessmentID, questionID, location string) (*domain.Response, error) {
	var r domain.Response
	err := db.WithContext(ctx).
		Where("assessment_id = ? AND question_id = ? AND location = ?", assessmentID, questionID, location).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListResponsesForQuestions returns every response row of an assessment for
// the given questions, including all locations of matrix questions.
func ListResponsesForQuestions(ctx context.Context, db *gorm.DB, assessmentID string, questionIDs []string) ([]domain.Response, error) {
	var out []domain.Response
	if len(questionIDs) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("assessment_id = ? AND question_id IN ?", assessmentID, questionIDs).
		Order("question_id").Order("location").
		Find(&out).Error
	return out, err
}
