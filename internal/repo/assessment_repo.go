// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for assessment
// types and assessments.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAssessmentType inserts t, assigning an ID when empty.
func CreateAssessmentType(ctx context.Context, db *gorm.DB, t *domain.AssessmentType) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(t).Error
}

// GetAssessmentType fetches a type by ID.
func GetAssessmentType(ctx context.Context, db *gorm.DB, id string) (*domain.AssessmentType, error) {
	var t domain.AssessmentType
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAssessmentTypeByCode fetches a type by its unique code.
func GetAssessmentTypeByCode(ctx context.Context, db *gorm.DB, code string) (*domain.AssessmentType, error) {
	var t domain.AssessmentType
	if err := db.WithContext(ctx).Where("code = ?", code).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateAssessment inserts a new draft assessment.
func CreateAssessment(ctx context.Context, db *gorm.DB, typeID, facility, assessorID string) (*domain.Assessment, error) {
	now := time.Now().UTC()
	a := &domain.Assessment{
		ID:               uuid.NewString(),
		AssessmentTypeID: typeID,
		FacilityName:     facility,
		AssessorID:       assessorID,
		Status:           domain.StatusDraft,
		Metadata:         datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetAssessment fetches a single assessment by ID, or ErrNotFound.
func GetAssessment(ctx context.Context, db *gorm.DB, id string) (*domain.Assessment, error) {
	var a domain.Assessment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssessmentForUpdate is GetAssessment with a row lock where the dialect
// supports one. Intended for use inside a transaction.
func GetAssessmentForUpdate(ctx context.Context, tx *gorm.DB, id string) (*domain.Assessment, error) {
	var a domain.Assessment
	if err := forUpdate(tx.WithContext(ctx)).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssessmentWithType loads an assessment with its type preloaded. A
// dangling type reference leaves AssessmentType zero-valued.
func GetAssessmentWithType(ctx context.Context, db *gorm.DB, id string) (*domain.Assessment, error) {
	var a domain.Assessment
	if err := db.WithContext(ctx).Preload("AssessmentType").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CountAssessments counts assessments, optionally filtered by status ("" = all).
func CountAssessments(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Assessment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListAssessmentsPage returns one page of assessments ordered by creation
// time descending, optionally filtered by status.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListAssessmentsPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Assessment, error) {
	var out []domain.Assessment
	q := db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at desc").Order("id").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListAssessmentIDsByStatus returns the IDs of every assessment in status.
func ListAssessmentIDsByStatus(ctx context.Context, db *gorm.DB, status domain.AssessmentStatus) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Assessment{}).
		Where("status = ?", status).
		Order("created_at").
		Pluck("id", &ids).Error
	return ids, err
}

// OverallUpdate carries the derived overall fields written by an aggregator.
type OverallUpdate struct {
	Score      float64
	MaxScore   float64
	Percentage float64
	Grade      *domain.Grade
	Metadata   datatypes.JSONMap
}

// UpdateAssessmentOverall replaces the overall fields and metadata of an
// assessment. Returns ErrNotFound when no row matched.
func UpdateAssessmentOverall(ctx context.Context, db *gorm.DB, id string, u OverallUpdate) error {
	res := db.WithContext(ctx).
		Model(&domain.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"overall_score":      u.Score,
			"overall_max_score":  u.MaxScore,
			"overall_percentage": u.Percentage,
			"overall_grade":      u.Grade,
			"metadata":           u.Metadata,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkInProgress moves a draft assessment to in_progress. It reports whether
// a transition happened; assessments in any other status are left alone.
func MarkInProgress(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Assessment{}).
		Where("id = ? AND status = ?", id, domain.StatusDraft).
		Updates(map[string]any{"status": domain.StatusInProgress, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

// CompleteAssessment marks an assessment completed at the given time.
func CompleteAssessment(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.StatusCompleted, "completed_at": at, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
