// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file adapts the repository free functions to the
// method-set contracts expected by the service layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// Store proxies every repository function as a method. It is stateless; the
// *gorm.DB (or transaction) is passed on each call.
type Store struct{}

func (Store) GetAssessmentType(ctx context.Context, db *gorm.DB, id string) (*domain.AssessmentType, error) {
	return GetAssessmentType(ctx, db, id)
}

func (Store) GetAssessmentTypeByCode(ctx context.Context, db *gorm.DB, code string) (*domain.AssessmentType, error) {
	return GetAssessmentTypeByCode(ctx, db, code)
}

func (Store) CreateAssessment(ctx context.Context, db *gorm.DB, typeID, facility, assessorID string) (*domain.Assessment, error) {
	return CreateAssessment(ctx, db, typeID, facility, assessorID)
}

func (Store) GetAssessment(ctx context.Context, db *gorm.DB, id string) (*domain.Assessment, error) {
	return GetAssessment(ctx, db, id)
}

func (Store) GetAssessmentForUpdate(ctx context.Context, tx *gorm.DB, id string) (*domain.Assessment, error) {
	return GetAssessmentForUpdate(ctx, tx, id)
}

func (Store) GetAssessmentWithType(ctx context.Context, db *gorm.DB, id string) (*domain.Assessment, error) {
	return GetAssessmentWithType(ctx, db, id)
}

func (Store) CountAssessments(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	return CountAssessments(ctx, db, status)
}

func (Store) ListAssessmentsPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Assessment, error) {
	return ListAssessmentsPage(ctx, db, status, offset, limit)
}

func (Store) ListAssessmentIDsByStatus(ctx context.Context, db *gorm.DB, status domain.AssessmentStatus) ([]string, error) {
	return ListAssessmentIDsByStatus(ctx, db, status)
}

func (Store) UpdateAssessmentOverall(ctx context.Context, db *gorm.DB, id string, u OverallUpdate) error {
	return UpdateAssessmentOverall(ctx, db, id, u)
}

func (Store) MarkInProgress(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return MarkInProgress(ctx, db, id)
}

func (Store) CompleteAssessment(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return CompleteAssessment(ctx, db, id, at)
}

func (Store) AssessmentsStats(ctx context.Context, db *gorm.DB, status string) (int64, *time.Time, error) {
	return AssessmentsStats(ctx, db, status)
}

func (Store) GetSection(ctx context.Context, db *gorm.DB, id string) (*domain.Section, error) {
	return GetSection(ctx, db, id)
}

func (Store) ListScoredSections(ctx context.Context, db *gorm.DB, typeID string) ([]domain.Section, error) {
	return ListScoredSections(ctx, db, typeID)
}

func (Store) ListScoredQuestions(ctx context.Context, db *gorm.DB, sectionID string) ([]domain.Question, error) {
	return ListScoredQuestions(ctx, db, sectionID)
}

func (Store) GetQuestions(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Question, error) {
	return GetQuestions(ctx, db, ids)
}

func (Store) UpsertResponse(ctx context.Context, db *gorm.DB, r *domain.Response) (*domain.Response, error) {
	return UpsertResponse(ctx, db, r)
}

func (Store) ListResponsesForQuestions(ctx context.Context, db *gorm.DB, assessmentID string, questionIDs []string) ([]domain.Response, error) {
	return ListResponsesForQuestions(ctx, db, assessmentID, questionIDs)
}

func (Store) UpsertSectionScore(ctx context.Context, db *gorm.DB, s *domain.SectionScore) (*domain.SectionScore, error) {
	return UpsertSectionScore(ctx, db, s)
}

func (Store) ListSectionScores(ctx context.Context, db *gorm.DB, assessmentID string) ([]domain.SectionScore, error) {
	return ListSectionScores(ctx, db, assessmentID)
}

func (Store) SectionScoresStats(ctx context.Context, db *gorm.DB, assessmentID string) (int64, *time.Time, error) {
	return SectionScoresStats(ctx, db, assessmentID)
}

func (Store) GetDepartment(ctx context.Context, db *gorm.DB, id string) (*domain.Department, error) {
	return GetDepartment(ctx, db, id)
}

func (Store) ListActiveDepartments(ctx context.Context, db *gorm.DB) ([]domain.Department, error) {
	return ListActiveDepartments(ctx, db)
}

func (Store) GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.CommodityCategory, error) {
	return GetCategory(ctx, db, id)
}

func (Store) ListActiveCategories(ctx context.Context, db *gorm.DB) ([]domain.CommodityCategory, error) {
	return ListActiveCategories(ctx, db)
}

func (Store) GetCommodity(ctx context.Context, db *gorm.DB, id string) (*domain.Commodity, error) {
	return GetCommodity(ctx, db, id)
}

func (Store) ApplicableCommodityIDs(ctx context.Context, db *gorm.DB, departmentID, categoryID string) ([]string, error) {
	return ApplicableCommodityIDs(ctx, db, departmentID, categoryID)
}

func (Store) ApplicableCommodities(ctx context.Context, db *gorm.DB, departmentID string) ([]domain.Commodity, error) {
	return ApplicableCommodities(ctx, db, departmentID)
}

func (Store) IsApplicable(ctx context.Context, db *gorm.DB, commodityID, departmentID string) (bool, error) {
	return IsApplicable(ctx, db, commodityID, departmentID)
}

func (Store) ListCommodityResponses(ctx context.Context, db *gorm.DB, assessmentID, departmentID string, commodityIDs []string) ([]domain.CommodityResponse, error) {
	return ListCommodityResponses(ctx, db, assessmentID, departmentID, commodityIDs)
}

func (Store) UpsertCommodityResponse(ctx context.Context, db *gorm.DB, r *domain.CommodityResponse) (*domain.CommodityResponse, error) {
	return UpsertCommodityResponse(ctx, db, r)
}

func (Store) CreateCommodityResponseIfMissing(ctx context.Context, db *gorm.DB, r *domain.CommodityResponse) (bool, error) {
	return CreateCommodityResponseIfMissing(ctx, db, r)
}

func (Store) UpsertDepartmentScore(ctx context.Context, db *gorm.DB, s *domain.DepartmentScore) (*domain.DepartmentScore, error) {
	return UpsertDepartmentScore(ctx, db, s)
}

func (Store) ListDepartmentScores(ctx context.Context, db *gorm.DB, assessmentID string) ([]domain.DepartmentScore, error) {
	return ListDepartmentScores(ctx, db, assessmentID)
}

func (Store) GetIdempotency(ctx context.Context, db *gorm.DB, userID, assessmentID, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, db, userID, assessmentID, key, now)
}

func (Store) CreateIdempotency(ctx context.Context, db *gorm.DB, userID, assessmentID, key string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, db, userID, assessmentID, key, status, ttl)
}

func (Store) PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	return PurgeExpiredIdempotency(ctx, db, now)
}
