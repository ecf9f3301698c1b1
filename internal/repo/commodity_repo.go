// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file covers the commodity availability grid:
// departments, categories, applicability, responses and derived
// DepartmentScore cells.
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

// GetDepartment fetches a department by ID.
func GetDepartment(ctx context.Context, db *gorm.DB, id string) (*domain.Department, error) {
	var d domain.Department
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListActiveDepartments returns active departments ordered by name.
func ListActiveDepartments(ctx context.Context, db *gorm.DB) ([]domain.Department, error) {
	var out []domain.Department
	err := db.WithContext(ctx).Where("is_active = ?", true).Order("name").Order("id").Find(&out).Error
	return out, err
}

// GetCategory fetches a commodity category by ID.
func GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.CommodityCategory, error) {
	var c domain.CommodityCategory
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActiveCategories returns active categories in display order.
func ListActiveCategories(ctx context.Context, db *gorm.DB) ([]domain.CommodityCategory, error) {
	var out []domain.CommodityCategory
	err := db.WithContext(ctx).Where("is_active = ?", true).Order("sort_order").Order("id").Find(&out).Error
	return out, err
}

// GetCommodity fetches a commodity by ID.
func GetCommodity(ctx context.Context, db *gorm.DB, id string) (*domain.Commodity, error) {
	var c domain.Commodity
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// applicableQuery selects active commodities applicable to departmentID.
func applicableQuery(ctx context.Context, db *gorm.DB, departmentID string) *gorm.DB {
	return db.WithContext(ctx).
		Model(&domain.Commodity{}).
		Joins("JOIN commodity_departments cd ON cd.commodity_id = commodities.id").
		Where("cd.department_id = ? AND commodities.is_active = ?", departmentID, true)
}

// ApplicableCommodityIDs returns the IDs of the active commodities in
// categoryID that apply to departmentID.
func ApplicableCommodityIDs(ctx context.Context, db *gorm.DB, departmentID, categoryID string) ([]string, error) {
	var ids []string
	err := applicableQuery(ctx, db, departmentID).
		Where("commodities.category_id = ?", categoryID).
		Order("commodities.id").
		Pluck("commodities.id", &ids).Error
	return ids, err
}

// ApplicableCommodities returns every active commodity that applies to
// departmentID, across categories.
func ApplicableCommodities(ctx context.Context, db *gorm.DB, departmentID string) ([]domain.Commodity, error) {
	var out []domain.Commodity
	err := applicableQuery(ctx, db, departmentID).
		Order("commodities.category_id").Order("commodities.id").
		Find(&out).Error
	return out, err
}

// IsApplicable reports whether commodityID applies to departmentID.
func IsApplicable(ctx context.Context, db *gorm.DB, commodityID, departmentID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.CommodityApplicability{}).
		Where("commodity_id = ? AND department_id = ?", commodityID, departmentID).
		Count(&n).Error
	return n > 0, err
}

// ListCommodityResponses returns the responses of (assessment, department)
// restricted to commodityIDs.
func ListCommodityResponses(ctx context.Context, db *gorm.DB, assessmentID, departmentID string, commodityIDs []string) ([]domain.CommodityResponse, error) {
	var out []domain.CommodityResponse
	if len(commodityIDs) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("assessment_id = ? AND department_id = ? AND commodity_id IN ?", assessmentID, departmentID, commodityIDs).
		Order("commodity_id").
		Find(&out).Error
	return out, err
}

// UpsertCommodityResponse inserts r or overwrites availability, notes and
// score of the existing (assessment, commodity, department) row.
func UpsertCommodityResponse(ctx context.Context, db *gorm.DB, r *domain.CommodityResponse) (*domain.CommodityResponse, error) {
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt, r.UpdatedAt = now, now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "commodity_id"}, {Name: "department_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"available", "notes", "score", "updated_at"}),
		}).
		Create(r).Error
	if err != nil {
		return nil, err
	}
	var out domain.CommodityResponse
	err = db.WithContext(ctx).
		Where("assessment_id = ? AND commodity_id = ? AND department_id = ?", r.AssessmentID, r.CommodityID, r.DepartmentID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCommodityResponseIfMissing inserts r unless a row already exists for
// its key. It never overwrites and reports whether a row was created.
func CreateCommodityResponseIfMissing(ctx context.Context, db *gorm.DB, r *domain.CommodityResponse) (bool, error) {
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt, r.UpdatedAt = now, now

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "commodity_id"}, {Name: "department_id"}},
			DoNothing: true,
		}).
		Create(r)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpsertDepartmentScore fully replaces the cell for (assessment, department, category).
func UpsertDepartmentScore(ctx context.Context, db *gorm.DB, s *domain.DepartmentScore) (*domain.DepartmentScore, error) {
	cur, err := getDepartmentScore(ctx, db, s.AssessmentID, s.DepartmentID, s.CategoryID)
	switch {
	case err == nil && sameDepartmentScore(cur, s):
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
			Columns: []clause.Column{{Name: "assessment_id"}, {Name: "department_id"}, {Name: "category_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"available_count", "total_applicable", "percentage", "grade", "updated_at",
			}),
		}).
		Create(s).Error
	if err != nil {
		return nil, err
	}
	return getDepartmentScore(ctx, db, s.AssessmentID, s.DepartmentID, s.CategoryID)
}

func getDepartmentScore(ctx context.Context, db *gorm.DB, assessmentID, departmentID, categoryID string) (*domain.DepartmentScore, error) {
	var out domain.DepartmentScore
	err := db.WithContext(ctx).
		Where("assessment_id = ? AND department_id = ? AND category_id = ?", assessmentID, departmentID, categoryID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func sameDepartmentScore(a, b *domain.DepartmentScore) bool {
	if (a.Grade == nil) != (b.Grade == nil) || (a.Grade != nil && *a.Grade != *b.Grade) {
		return false
	}
	return a.AvailableCount == b.AvailableCount &&
		a.TotalApplicable == b.TotalApplicable &&
		a.Percentage == b.Percentage
}

// ListDepartmentScores returns every cell of an assessment.
func ListDepartmentScores(ctx context.Context, db *gorm.DB, assessmentID string) ([]domain.DepartmentScore, error) {
	var out []domain.DepartmentScore
	err := db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("department_id").Order("category_id").
		Find(&out).Error
	return out, err
}
