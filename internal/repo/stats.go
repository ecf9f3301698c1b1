// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// AssessmentsStats returns the number of assessments (optionally filtered by
// status) and the greatest UpdatedAt among them. When there are no rows the
// count is 0 and maxUpdatedAt is nil.
func AssessmentsStats(ctx context.Context, db *gorm.DB, status string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Assessment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return countAndLatest(q)
}

// SectionScoresStats returns the number of SectionScore rows of an
// assessment and the greatest UpdatedAt among them.
func SectionScoresStats(ctx context.Context, db *gorm.DB, assessmentID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.SectionScore{}).Where("assessment_id = ?", assessmentID)
	return countAndLatest(q)
}

func countAndLatest(q *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Session(&gorm.Session{}).Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
