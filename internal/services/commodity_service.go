// Package services – CommodityService
//
// CommodityService owns the availability grid: one DepartmentScore cell per
// (assessment, department, category), computed from CommodityResponse rows
// against the set of commodities applicable to the department. Department
// and grand-total figures are re-aggregated from the stored cells on read and
// never persisted on their own.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/observability"
	"github.com/tbourn/go-assessment-backend/internal/repo"
	"github.com/tbourn/go-assessment-backend/internal/scoring"
)

// CategoryCell is one stored cell of a department row.
type CategoryCell struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	scoring.AvailabilityTally
}

// DepartmentSummary is a department row of the grid with its re-aggregated total.
type DepartmentSummary struct {
	DepartmentID   string                    `json:"department_id"`
	DepartmentCode string                    `json:"department_code"`
	DepartmentName string                    `json:"department_name"`
	Categories     []CategoryCell            `json:"categories"`
	Total          scoring.AvailabilityTally `json:"total"`
}

// CommodityMatrix is the full grid of an assessment.
type CommodityMatrix struct {
	AssessmentID string                    `json:"assessment_id"`
	Departments  []DepartmentSummary       `json:"departments"`
	GrandTotal   scoring.AvailabilityTally `json:"grand_total"`
}

// CommodityService aggregates commodity availability.
type CommodityService struct {
	DB        *gorm.DB
	Repo      Store
	Locker    Locker
	Publisher Publisher

	// Now is the clock used for last_scored_at; defaults to time.Now.
	Now func() time.Time
}

// NewCommodityService wires a CommodityService. A nil publisher drops events.
func NewCommodityService(db *gorm.DB, r Store, l Locker, p Publisher) *CommodityService {
	if p == nil {
		p = NopPublisher{}
	}
	return &CommodityService{DB: db, Repo: r, Locker: l, Publisher: p, Now: time.Now}
}

func (s *CommodityService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// RecalculateDepartmentCategory recomputes one cell of the grid. It returns
// nil without writing when the assessment, department or category is
// unknown or inactive, or when no active commodity of the category applies
// to the department.
func (s *CommodityService) RecalculateDepartmentCategory(ctx context.Context, assessmentID, departmentID, categoryID string) (out *domain.DepartmentScore, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, tracerName, "commodity.RecalculateDepartmentCategory",
		attribute.String("assessment.id", assessmentID),
		attribute.String("department.id", departmentID),
		attribute.String("category.id", categoryID),
	)
	defer func() {
		observability.ObserveRecalculation(observability.AggDepartment, observability.Outcome(out != nil, err), start)
		observability.EndSpan(span, err)
	}()

	err = withLock(ctx, s.Locker, departmentLockKey(assessmentID, departmentID, categoryID), func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := s.Repo.GetAssessment(ctx, tx, assessmentID); err != nil {
				return ignoreNotFound(err)
			}
			d, err := s.Repo.GetDepartment(ctx, tx, departmentID)
			if err != nil {
				return ignoreNotFound(err)
			}
			c, err := s.Repo.GetCategory(ctx, tx, categoryID)
			if err != nil {
				return ignoreNotFound(err)
			}
			if !d.IsActive || !c.IsActive {
				return nil
			}

			ids, err := s.Repo.ApplicableCommodityIDs(ctx, tx, d.ID, c.ID)
			if err != nil || len(ids) == 0 {
				return err
			}
			rs, err := s.Repo.ListCommodityResponses(ctx, tx, assessmentID, d.ID, ids)
			if err != nil {
				return err
			}
			t := scoring.TallyAvailability(ids, rs)
			out, err = s.Repo.UpsertDepartmentScore(ctx, tx, &domain.DepartmentScore{
				AssessmentID:    assessmentID,
				DepartmentID:    d.ID,
				CategoryID:      c.ID,
				AvailableCount:  t.AvailableCount,
				TotalApplicable: t.TotalApplicable,
				Percentage:      t.Percentage,
				Grade:           t.Grade,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DepartmentSummary re-aggregates the stored cells of one department.
func (s *CommodityService) DepartmentSummary(ctx context.Context, assessmentID, departmentID string) (*DepartmentSummary, error) {
	if err := s.requireAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}
	d, err := s.Repo.GetDepartment(ctx, s.DB, departmentID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ListDepartmentScores(ctx, s.DB, assessmentID)
	if err != nil {
		return nil, err
	}
	cats, err := s.Repo.ListActiveCategories(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	sum := summarize(*d, rows, cats)
	return &sum, nil
}

// Matrix returns every active department row plus the grand total. The
// grand total is the same figure RecalculateOverall writes onto the
// assessment, so it also counts cells of departments deactivated since they
// were scored.
func (s *CommodityService) Matrix(ctx context.Context, assessmentID string) (*CommodityMatrix, error) {
	if err := s.requireAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}
	depts, err := s.Repo.ListActiveDepartments(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ListDepartmentScores(ctx, s.DB, assessmentID)
	if err != nil {
		return nil, err
	}
	cats, err := s.Repo.ListActiveCategories(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	m := &CommodityMatrix{
		AssessmentID: assessmentID,
		Departments:  make([]DepartmentSummary, 0, len(depts)),
		GrandTotal:   grandTotal(rows),
	}
	for _, d := range depts {
		m.Departments = append(m.Departments, summarize(d, rows, cats))
	}
	return m, nil
}

// InitializeDepartment creates an unavailable response for every applicable
// commodity of the department that has none yet, never overwriting existing
// answers, and returns how many rows were created. Completed assessments are
// rejected. When rows were created
// the affected cells and the overall are recalculated.
func (s *CommodityService) InitializeDepartment(ctx context.Context, assessmentID, departmentID string) (int, error) {
	a, err := s.Repo.GetAssessment(ctx, s.DB, assessmentID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, ErrAssessmentNotFound
	}
	if err != nil {
		return 0, err
	}
	if a.Status == domain.StatusCompleted {
		return 0, ErrAssessmentCompleted
	}
	if _, err := s.Repo.GetDepartment(ctx, s.DB, departmentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrDepartmentNotFound
		}
		return 0, err
	}
	commodities, err := s.Repo.ApplicableCommodities(ctx, s.DB, departmentID)
	if err != nil {
		return 0, err
	}

	created := 0
	categories := map[string]struct{}{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range commodities {
			zero := 0.0
			ok, err := s.Repo.CreateCommodityResponseIfMissing(ctx, tx, &domain.CommodityResponse{
				AssessmentID: assessmentID,
				CommodityID:  c.ID,
				DepartmentID: departmentID,
				Available:    false,
				Score:        &zero,
			})
			if err != nil {
				return err
			}
			if ok {
				created++
				categories[c.CategoryID] = struct{}{}
			}
		}
		return nil
	})
	if err != nil || created == 0 {
		return created, err
	}

	for catID := range categories {
		if _, err := s.RecalculateDepartmentCategory(ctx, assessmentID, departmentID, catID); err != nil {
			return created, err
		}
	}
	if _, err := s.RecalculateOverall(ctx, assessmentID); err != nil {
		return created, err
	}
	return created, nil
}

// RecalculateOverall writes the grand total of a commodity-mode assessment
// onto its overall fields, graded three-tier with a nil grade at exactly
// 0%. It returns nil for other modes and when no cells exist yet.
func (s *CommodityService) RecalculateOverall(ctx context.Context, assessmentID string) (res *OverallResult, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, tracerName, "commodity.RecalculateOverall",
		attribute.String("assessment.id", assessmentID),
	)
	defer func() {
		observability.ObserveRecalculation(observability.AggCommodity, observability.Outcome(res != nil, err), start)
		observability.EndSpan(span, err)
	}()

	err = withLock(ctx, s.Locker, overallLockKey(assessmentID), func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			a, err := s.Repo.GetAssessmentForUpdate(ctx, tx, assessmentID)
			if err != nil {
				return ignoreNotFound(err)
			}
			at, err := s.Repo.GetAssessmentType(ctx, tx, a.AssessmentTypeID)
			if err != nil {
				return ignoreNotFound(err)
			}
			if at.ScoringMode != domain.ModeCommodity {
				return nil
			}
			rows, err := s.Repo.ListDepartmentScores(ctx, tx, a.ID)
			if err != nil || len(rows) == 0 {
				return err
			}

			t := grandTotal(rows)
			r := &OverallResult{
				AssessmentID: a.ID,
				Policy:       domain.PolicyThreeTier,
				Score:        float64(t.AvailableCount),
				MaxScore:     float64(t.TotalApplicable),
				Percentage:   t.Percentage,
				Grade:        t.Grade,
				ScoredAt:     s.now(),
			}
			if err := s.Repo.UpdateAssessmentOverall(ctx, tx, a.ID, repo.OverallUpdate{
				Score:      r.Score,
				MaxScore:   r.MaxScore,
				Percentage: r.Percentage,
				Grade:      r.Grade,
				Metadata:   scoredMetadata(a.Metadata, r.Policy, r.ScoredAt),
			}); err != nil {
				return err
			}
			res = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if res != nil {
		publishScored(ctx, s.Publisher, domain.ModeCommodity, res)
	}
	return res, nil
}

// RecalculateAll recomputes every (active department, active category) cell
// and then the overall. Unknown assessments are a no-op.
func (s *CommodityService) RecalculateAll(ctx context.Context, assessmentID string) (*OverallResult, error) {
	if _, err := s.Repo.GetAssessment(ctx, s.DB, assessmentID); err != nil {
		return nil, ignoreNotFound(err)
	}
	depts, err := s.Repo.ListActiveDepartments(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	cats, err := s.Repo.ListActiveCategories(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	for _, d := range depts {
		for _, c := range cats {
			if _, err := s.RecalculateDepartmentCategory(ctx, assessmentID, d.ID, c.ID); err != nil {
				return nil, err
			}
		}
	}
	return s.RecalculateOverall(ctx, assessmentID)
}

func (s *CommodityService) requireAssessment(ctx context.Context, assessmentID string) error {
	if _, err := s.Repo.GetAssessment(ctx, s.DB, assessmentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAssessmentNotFound
		}
		return err
	}
	return nil
}

// summarize builds a department row from stored cells, ordered like cats.
// Cells of inactive categories are still counted in the total.
func summarize(d domain.Department, rows []domain.DepartmentScore, cats []domain.CommodityCategory) DepartmentSummary {
	order := make(map[string]int, len(cats))
	for i, c := range cats {
		order[c.ID] = i
	}
	cells := make([]CategoryCell, 0, len(cats))
	var tallies []scoring.AvailabilityTally
	var extra []CategoryCell
	for _, r := range rows {
		if r.DepartmentID != d.ID {
			continue
		}
		t := scoring.FromDepartmentScore(r)
		tallies = append(tallies, t)
		cell := CategoryCell{CategoryID: r.CategoryID, AvailabilityTally: t}
		if i, ok := order[r.CategoryID]; ok {
			cell.CategoryName = cats[i].Name
			cells = append(cells, cell)
		} else {
			extra = append(extra, cell)
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return order[cells[i].CategoryID] < order[cells[j].CategoryID]
	})
	return DepartmentSummary{
		DepartmentID:   d.ID,
		DepartmentCode: d.Code,
		DepartmentName: d.Name,
		Categories:     append(cells, extra...),
		Total:          scoring.Combine(tallies...),
	}
}

// grandTotal re-aggregates every stored cell of an assessment across all
// departments and categories, whatever their current active flag.
func grandTotal(rows []domain.DepartmentScore) scoring.AvailabilityTally {
	tallies := make([]scoring.AvailabilityTally, len(rows))
	for i, r := range rows {
		tallies[i] = scoring.FromDepartmentScore(r)
	}
	return scoring.Combine(tallies...)
}

// ignoreNotFound turns a missing row into a no-op.
func ignoreNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}
