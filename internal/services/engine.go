// Package services – Engine
//
// Engine dispatches full recalculations and overall cascades to the
// aggregator that matches an assessment type's scoring mode.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/repo"
)

// Engine bundles the two aggregators behind one entry point.
type Engine struct {
	DB        *gorm.DB
	Repo      Store
	Scoring   *ScoringService
	Commodity *CommodityService
}

// NewEngine wires both aggregators over the same store, locker and publisher.
func NewEngine(db *gorm.DB, r Store, l Locker, p Publisher) *Engine {
	return &Engine{
		DB:        db,
		Repo:      r,
		Scoring:   NewScoringService(db, r, l, p),
		Commodity: NewCommodityService(db, r, l, p),
	}
}

// mode resolves the scoring mode of an assessment's type.
func (e *Engine) mode(ctx context.Context, assessmentID string) (domain.ScoringMode, error) {
	a, err := e.Repo.GetAssessmentWithType(ctx, e.DB, assessmentID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrAssessmentNotFound
	}
	if err != nil {
		return "", err
	}
	if a.AssessmentType.ID == "" {
		return "", ErrAssessmentTypeNotFound
	}
	return a.AssessmentType.ScoringMode, nil
}

// RecalculateOverall runs the overall aggregator variant of the assessment
// type. Missing assessments or types are a no-op.
func (e *Engine) RecalculateOverall(ctx context.Context, assessmentID string) (*OverallResult, error) {
	m, err := e.mode(ctx, assessmentID)
	if errors.Is(err, ErrAssessmentNotFound) || errors.Is(err, ErrAssessmentTypeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m == domain.ModeCommodity {
		return e.Commodity.RecalculateOverall(ctx, assessmentID)
	}
	return e.Scoring.RecalculateOverall(ctx, assessmentID)
}

// RecalculateAll recomputes every derived row of the assessment and its
// overall fields. Unlike the aggregators it reports unknown assessments.
func (e *Engine) RecalculateAll(ctx context.Context, assessmentID string) (*OverallResult, error) {
	m, err := e.mode(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if m == domain.ModeCommodity {
		return e.Commodity.RecalculateAll(ctx, assessmentID)
	}
	return e.Scoring.RecalculateAll(ctx, assessmentID)
}
