// Package services – store contracts
//
// The services depend on these interfaces rather than on package-level repo
// functions so that aggregators receive their store explicitly and tests can
// substitute individual methods. repo.Store satisfies Store.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/repo"
)

// AssessmentStore reads and writes assessments and their types.
type AssessmentStore interface {
	GetAssessmentType(ctx context.Context, db *gorm.DB, id string) (*domain.AssessmentType, error)
	GetAssessmentTypeByCode(ctx context.Context, db *gorm.DB, code string) (*domain.AssessmentType, error)
	CreateAssessment(ctx context.Context, db *gorm.DB, typeID, facility, assessorID string) (*domain.Assessment, error)
	GetAssessment(ctx context.Context, db *gorm.DB, id string) (*domain.Assessment, error)
	GetAssessmentForUpdate(ctx context.Context, tx *gorm.DB, id string) (*domain.Assessment, error)
	GetAssessmentWithType(ctx context.Context, db *gorm.DB, id string) (*domain.Assessment, error)
	CountAssessments(ctx context.Context, db *gorm.DB, status string) (int64, error)
	ListAssessmentsPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Assessment, error)
	ListAssessmentIDsByStatus(ctx context.Context, db *gorm.DB, status domain.AssessmentStatus) ([]string, error)
	UpdateAssessmentOverall(ctx context.Context, db *gorm.DB, id string, u repo.OverallUpdate) error
	MarkInProgress(ctx context.Context, db *gorm.DB, id string) (bool, error)
	CompleteAssessment(ctx context.Context, db *gorm.DB, id string, at time.Time) error
	AssessmentsStats(ctx context.Context, db *gorm.DB, status string) (int64, *time.Time, error)
}

// QuestionnaireStore covers sections, questions, responses and SectionScore rows.
type QuestionnaireStore interface {
	GetSection(ctx context.Context, db *gorm.DB, id string) (*domain.Section, error)
	ListScoredSections(ctx context.Context, db *gorm.DB, typeID string) ([]domain.Section, error)
	ListScoredQuestions(ctx context.Context, db *gorm.DB, sectionID string) ([]domain.Question, error)
	GetQuestions(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Question, error)
	UpsertResponse(ctx context.Context, db *gorm.DB, r *domain.Response) (*domain.Response, error)
	ListResponsesForQuestions(ctx context.Context, db *gorm.DB, assessmentID string, questionIDs []string) ([]domain.Response, error)
	UpsertSectionScore(ctx context.Context, db *gorm.DB, s *domain.SectionScore) (*domain.SectionScore, error)
	ListSectionScores(ctx context.Context, db *gorm.DB, assessmentID string) ([]domain.SectionScore, error)
	SectionScoresStats(ctx context.Context, db *gorm.DB, assessmentID string) (int64, *time.Time, error)
}

// CommodityStore covers the availability grid.
type CommodityStore interface {
	GetDepartment(ctx context.Context, db *gorm.DB, id string) (*domain.Department, error)
	ListActiveDepartments(ctx context.Context, db *gorm.DB) ([]domain.Department, error)
	GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.CommodityCategory, error)
	ListActiveCategories(ctx context.Context, db *gorm.DB) ([]domain.CommodityCategory, error)
	GetCommodity(ctx context.Context, db *gorm.DB, id string) (*domain.Commodity, error)
	ApplicableCommodityIDs(ctx context.Context, db *gorm.DB, departmentID, categoryID string) ([]string, error)
	ApplicableCommodities(ctx context.Context, db *gorm.DB, departmentID string) ([]domain.Commodity, error)
	IsApplicable(ctx context.Context, db *gorm.DB, commodityID, departmentID string) (bool, error)
	ListCommodityResponses(ctx context.Context, db *gorm.DB, assessmentID, departmentID string, commodityIDs []string) ([]domain.CommodityResponse, error)
	UpsertCommodityResponse(ctx context.Context, db *gorm.DB, r *domain.CommodityResponse) (*domain.CommodityResponse, error)
	CreateCommodityResponseIfMissing(ctx context.Context, db *gorm.DB, r *domain.CommodityResponse) (bool, error)
	UpsertDepartmentScore(ctx context.Context, db *gorm.DB, s *domain.DepartmentScore) (*domain.DepartmentScore, error)
	ListDepartmentScores(ctx context.Context, db *gorm.DB, assessmentID string) ([]domain.DepartmentScore, error)
}

// IdempotencyStore records replayable response submissions.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, db *gorm.DB, userID, assessmentID, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, userID, assessmentID, key string, status int, ttl time.Duration) (*domain.Idempotency, error)
	PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
}

// Store is the full persistence contract of the engine.
type Store interface {
	AssessmentStore
	QuestionnaireStore
	CommodityStore
	IdempotencyStore
}

var _ Store = repo.Store{}
