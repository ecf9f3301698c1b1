// Package services – AssessmentService
//
// AssessmentService manages the assessment lifecycle: creation in draft,
// lookups and paginated listing for the API, and completion, which runs a
// full recalculation before the status is frozen.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/repo"
)

// AssessmentService provides assessment-level operations.
type AssessmentService struct {
	DB     *gorm.DB
	Repo   Store
	Engine *Engine

	// FacilityMaxLen caps stored facility names by rune length.
	FacilityMaxLen int
}

// NewAssessmentService constructs an AssessmentService with defaults.
func NewAssessmentService(db *gorm.DB, r Store, e *Engine) *AssessmentService {
	return &AssessmentService{DB: db, Repo: r, Engine: e, FacilityMaxLen: 255}
}

// Create starts a draft assessment. typeRef may be an assessment type id or code.
func (s *AssessmentService) Create(ctx context.Context, typeRef, facility, assessorID string) (*domain.Assessment, error) {
	typeRef = strings.TrimSpace(typeRef)
	facility = normalizeName(facility)
	if typeRef == "" || facility == "" {
		return nil, ErrInvalidAssessment
	}
	at, err := s.Repo.GetAssessmentType(ctx, s.DB, typeRef)
	if errors.Is(err, repo.ErrNotFound) {
		at, err = s.Repo.GetAssessmentTypeByCode(ctx, s.DB, typeRef)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAssessmentTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.FacilityMaxLen > 0 {
		if r := []rune(facility); len(r) > s.FacilityMaxLen {
			facility = string(r[:s.FacilityMaxLen])
		}
	}
	return s.Repo.CreateAssessment(ctx, s.DB, at.ID, facility, assessorID)
}

// Get returns an assessment by id.
func (s *AssessmentService) Get(ctx context.Context, id string) (*domain.Assessment, error) {
	a, err := s.Repo.GetAssessment(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAssessmentNotFound
	}
	return a, err
}

// ListPage returns a page of assessments, optionally filtered by status.
// It applies defaults for invalid page/pageSize and returns total count.
func (s *AssessmentService) ListPage(ctx context.Context, status string, page, pageSize int) ([]domain.Assessment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountAssessments(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Assessment{}, 0, nil
	}

	items, err := s.Repo.ListAssessmentsPage(ctx, s.DB, status, offset, pageSize)
	return items, total, err
}

// Stats returns the count and latest update time of assessments matching
// status, for conditional GETs.
func (s *AssessmentService) Stats(ctx context.Context, status string) (int64, *time.Time, error) {
	return s.Repo.AssessmentsStats(ctx, s.DB, status)
}

// Complete recalculates every derived row of the assessment and marks it
// completed. Completed assessments are rejected with ErrAssessmentCompleted.
func (s *AssessmentService) Complete(ctx context.Context, id string) (*domain.Assessment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == domain.StatusCompleted {
		return nil, ErrAssessmentCompleted
	}
	if _, err := s.Engine.RecalculateAll(ctx, a.ID); err != nil {
		return nil, err
	}
	if err := s.Repo.CompleteAssessment(ctx, s.DB, a.ID, time.Now().UTC()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return s.Get(ctx, a.ID)
}

// Recalculate runs a full recalculation and returns the refreshed assessment
// with the overall result (nil when nothing was written).
func (s *AssessmentService) Recalculate(ctx context.Context, id string) (*domain.Assessment, *OverallResult, error) {
	res, err := s.Engine.RecalculateAll(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.Get(ctx, id)
	return a, res, err
}

// normalizeName trims whitespace and collapses runs of it to one space.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
