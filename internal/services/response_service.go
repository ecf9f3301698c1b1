// Package services – ResponseService
//
// ResponseService is the save path of the engine. Raw answers are persisted
// together with the score resolved from the question's scoring map, and the
// affected derived rows are then recalculated synchronously (section, then
// overall; or department-category cell, then overall).
//
// Recalculation is best effort: a failure after the answers are committed is
// logged and reported in the result, but never turns the save into an error.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/repo"
	"github.com/tbourn/go-assessment-backend/internal/scoring"
)

// ResponseInput is one answer in a submission.
type ResponseInput struct {
	QuestionID  string
	Location    string
	Value       *string
	Explanation *string
	Metadata    map[string]any
}

// SaveResult reports what a submission changed.
type SaveResult struct {
	Responses     []domain.Response     `json:"responses"`
	SectionScores []domain.SectionScore `json:"section_scores"`
	Assessment    *domain.Assessment    `json:"assessment,omitempty"`
	// RecalcErrors lists recalculation failures that did not fail the save.
	RecalcErrors []string `json:"recalc_errors,omitempty"`
}

// CommodityInput is one availability answer.
type CommodityInput struct {
	CommodityID  string
	DepartmentID string
	Available    bool
	Notes        *string
}

// CommoditySaveResult reports what a commodity save changed.
type CommoditySaveResult struct {
	Response        *domain.CommodityResponse `json:"response"`
	DepartmentScore *domain.DepartmentScore   `json:"department_score,omitempty"`
	Assessment      *domain.Assessment        `json:"assessment,omitempty"`
	RecalcErrors    []string                  `json:"recalc_errors,omitempty"`
}

// ResponseService persists answers and triggers recalculation.
type ResponseService struct {
	DB     *gorm.DB
	Repo   Store
	Engine *Engine

	// IdempotencyTTL bounds how long a remembered submission can be replayed.
	IdempotencyTTL time.Duration
}

// NewResponseService wires a ResponseService on top of an Engine.
func NewResponseService(db *gorm.DB, r Store, e *Engine) *ResponseService {
	return &ResponseService{DB: db, Repo: r, Engine: e, IdempotencyTTL: 24 * time.Hour}
}

// SaveResponses upserts a batch of answers for one assessment, writes back
// each row's resolved score, moves a draft assessment to in_progress and
// recalculates every section the batch touched.
func (s *ResponseService) SaveResponses(ctx context.Context, assessmentID string, inputs []ResponseInput) (*SaveResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no responses", ErrInvalidResponse)
	}
	a, err := s.openAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.QuestionID) == "" {
			return nil, fmt.Errorf("%w: question_id is required", ErrInvalidResponse)
		}
		ids = append(ids, in.QuestionID)
	}
	questions, err := s.Repo.GetQuestions(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	sectionOrder, err := s.checkQuestions(ctx, a, inputs, questions)
	if err != nil {
		return nil, err
	}

	res := &SaveResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			q := questions[in.QuestionID]
			loc := strings.TrimSpace(in.Location)
			if !q.IsMatrix() {
				loc = ""
			}
			r := domain.Response{
				AssessmentID:  a.ID,
				QuestionID:    q.ID,
				Location:      loc,
				ResponseValue: in.Value,
				Explanation:   in.Explanation,
				Metadata:      datatypes.JSONMap(in.Metadata),
			}
			r.Score = scoring.ResolveResponse(q, r)
			saved, err := s.Repo.UpsertResponse(ctx, tx, &r)
			if err != nil {
				return err
			}
			res.Responses = append(res.Responses, *saved)
		}
		_, err := s.Repo.MarkInProgress(ctx, tx, a.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, sectionID := range sectionOrder {
		row, err := s.Engine.Scoring.RecalculateSection(ctx, a.ID, sectionID)
		if err != nil {
			log.Warn().Err(err).
				Str("assessment_id", a.ID).
				Str("section_id", sectionID).
				Msg("section recalculation failed")
			res.RecalcErrors = append(res.RecalcErrors, fmt.Sprintf("section %s: %v", sectionID, err))
		}
		if row != nil {
			res.SectionScores = append(res.SectionScores, *row)
		}
	}

	res.Assessment, _ = s.Repo.GetAssessment(ctx, s.DB, a.ID)
	return res, nil
}

// checkQuestions verifies every input references a question of the
// assessment's type and returns the touched section ids in first-seen order.
func (s *ResponseService) checkQuestions(ctx context.Context, a *domain.Assessment, inputs []ResponseInput, questions map[string]domain.Question) ([]string, error) {
	sections := map[string]bool{}
	var order []string
	for _, in := range inputs {
		q, ok := questions[in.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %s", ErrInvalidResponse, in.QuestionID)
		}
		valid, seen := sections[q.SectionID]
		if !seen {
			sec, err := s.Repo.GetSection(ctx, s.DB, q.SectionID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			valid = err == nil && sec.AssessmentTypeID == a.AssessmentTypeID
			sections[q.SectionID] = valid
			if valid {
				order = append(order, q.SectionID)
			}
		}
		if !valid {
			return nil, fmt.Errorf("%w: question %s is not part of this assessment", ErrInvalidResponse, q.ID)
		}
	}
	return order, nil
}

// SaveCommodityResponse upserts one availability answer, recalculates its
// (department, category) cell and cascades to the overall aggregator of the
// assessment type.
func (s *ResponseService) SaveCommodityResponse(ctx context.Context, assessmentID string, in CommodityInput) (*CommoditySaveResult, error) {
	a, err := s.openAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetDepartment(ctx, s.DB, in.DepartmentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	c, err := s.Repo.GetCommodity(ctx, s.DB, in.CommodityID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCommodityNotFound
	}
	if err != nil {
		return nil, err
	}
	ok, err := s.Repo.IsApplicable(ctx, s.DB, c.ID, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not applicable to department", ErrCommodityNotFound)
	}

	score := 0.0
	if in.Available {
		score = 1
	}
	res := &CommoditySaveResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saved, err := s.Repo.UpsertCommodityResponse(ctx, tx, &domain.CommodityResponse{
			AssessmentID: a.ID,
			CommodityID:  c.ID,
			DepartmentID: in.DepartmentID,
			Available:    in.Available,
			Notes:        in.Notes,
			Score:        &score,
		})
		if err != nil {
			return err
		}
		res.Response = saved
		_, err = s.Repo.MarkInProgress(ctx, tx, a.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	cell, err := s.Engine.Commodity.RecalculateDepartmentCategory(ctx, a.ID, in.DepartmentID, c.CategoryID)
	if err != nil {
		log.Warn().Err(err).
			Str("assessment_id", a.ID).
			Str("department_id", in.DepartmentID).
			Str("category_id", c.CategoryID).
			Msg("department recalculation failed")
		res.RecalcErrors = append(res.RecalcErrors, fmt.Sprintf("department %s: %v", in.DepartmentID, err))
	} else if cell != nil {
		res.DepartmentScore = cell
		if _, err := s.Engine.RecalculateOverall(ctx, a.ID); err != nil {
			log.Warn().Err(err).Str("assessment_id", a.ID).Msg("overall recalculation failed")
			res.RecalcErrors = append(res.RecalcErrors, fmt.Sprintf("overall: %v", err))
		}
	}

	res.Assessment, _ = s.Repo.GetAssessment(ctx, s.DB, a.ID)
	return res, nil
}

// openAssessment loads an assessment that still accepts answers.
func (s *ResponseService) openAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	a, err := s.Repo.GetAssessment(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.Status == domain.StatusCompleted {
		return nil, ErrAssessmentCompleted
	}
	return a, nil
}

// Replayed reports whether a submission with key was already processed for
// (userID, assessmentID) and is still within its TTL.
func (s *ResponseService) Replayed(ctx context.Context, userID, assessmentID, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	rec, err := s.Repo.GetIdempotency(ctx, s.DB, userID, assessmentID, key, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Remember records a processed submission so retries with the same key are
// replayed. A concurrent duplicate is not an error.
func (s *ResponseService) Remember(ctx context.Context, userID, assessmentID, key string, status int) error {
	if key == "" {
		return nil
	}
	ttl := s.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, err := s.Repo.CreateIdempotency(ctx, s.DB, userID, assessmentID, key, status, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}
