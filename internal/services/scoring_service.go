// Package services – ScoringService
//
// ScoringService owns the questionnaire side of the engine: the Section
// Aggregator, which rolls pre-computed response scores up into one
// SectionScore row per (assessment, section), and the Overall Aggregator,
// which writes the derived overall fields onto the assessment.
//
// Each aggregation is a full re-read-and-sum over the current rows, executed
// in one transaction under a keyed lock. Missing configuration and empty
// question sets are reported as a nil result, never as an error.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/observability"
	"github.com/tbourn/go-assessment-backend/internal/repo"
	"github.com/tbourn/go-assessment-backend/internal/scoring"
)

const tracerName = "assessment-scoring/services"

// Metadata keys written onto Assessment.Metadata by the overall aggregators.
const (
	MetaLastScoredAt  = "last_scored_at"
	MetaGradingPolicy = "grading_policy"
	MetaSectionScores = "section_scores"
)

// SectionSnapshot is one section's breakdown inside an overall result.
type SectionSnapshot struct {
	SectionID string `json:"section_id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	scoring.SectionTally
}

// OverallResult describes a completed overall write.
type OverallResult struct {
	AssessmentID string               `json:"assessment_id"`
	Policy       domain.GradingPolicy `json:"grading_policy"`
	Score        float64              `json:"score"`
	MaxScore     float64              `json:"max_score"`
	Percentage   float64              `json:"percentage"`
	Grade        *domain.Grade        `json:"grade"`
	Sections     []SectionSnapshot    `json:"sections,omitempty"`
	ScoredAt     time.Time            `json:"scored_at"`
}

// ScoringService aggregates questionnaire responses.
type ScoringService struct {
	DB        *gorm.DB
	Repo      Store
	Locker    Locker
	Publisher Publisher

	// Now is the clock used for last_scored_at; defaults to time.Now.
	Now func() time.Time
}

// NewScoringService wires a ScoringService. A nil publisher drops events.
func NewScoringService(db *gorm.DB, r Store, l Locker, p Publisher) *ScoringService {
	if p == nil {
		p = NopPublisher{}
	}
	return &ScoringService{DB: db, Repo: r, Locker: l, Publisher: p, Now: time.Now}
}

func (s *ScoringService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// RecalculateSection recomputes the SectionScore for (assessmentID,
// sectionID) and then the assessment's overall fields. It returns nil when
// the section is unknown, belongs to another assessment type, is unscored or
// inactive, or has no scored active questions; no row is written in that case.
func (s *ScoringService) RecalculateSection(ctx context.Context, assessmentID, sectionID string) (*domain.SectionScore, error) {
	row, err := s.recalculateSection(ctx, assessmentID, sectionID)
	if err != nil || row == nil {
		return row, err
	}
	if _, err := s.RecalculateOverall(ctx, assessmentID); err != nil {
		return row, err
	}
	return row, nil
}

func (s *ScoringService) recalculateSection(ctx context.Context, assessmentID, sectionID string) (out *domain.SectionScore, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, tracerName, "scoring.RecalculateSection",
		attribute.String("assessment.id", assessmentID),
		attribute.String("section.id", sectionID),
	)
	defer func() {
		observability.ObserveRecalculation(observability.AggSection, observability.Outcome(out != nil, err), start)
		observability.EndSpan(span, err)
	}()

	err = withLock(ctx, s.Locker, sectionLockKey(assessmentID, sectionID), func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			a, err := s.Repo.GetAssessment(ctx, tx, assessmentID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			sec, err := s.Repo.GetSection(ctx, tx, sectionID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if sec.AssessmentTypeID != a.AssessmentTypeID || !sec.IsScored || !sec.IsActive {
				return nil
			}

			t, ok, err := s.tally(ctx, tx, a.ID, sec.ID)
			if err != nil || !ok {
				return err
			}
			out, err = s.Repo.UpsertSectionScore(ctx, tx, &domain.SectionScore{
				AssessmentID:      a.ID,
				SectionID:         sec.ID,
				TotalScore:        t.TotalScore,
				MaxScore:          t.MaxScore,
				Percentage:        t.Percentage,
				TotalQuestions:    t.TotalQuestions,
				AnsweredQuestions: t.AnsweredQuestions,
				SkippedQuestions:  t.SkippedQuestions,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// tally reads the scored active questions of a section and their responses.
// ok is false when the section has no scored active questions.
func (s *ScoringService) tally(ctx context.Context, tx *gorm.DB, assessmentID, sectionID string) (scoring.SectionTally, bool, error) {
	qs, err := s.Repo.ListScoredQuestions(ctx, tx, sectionID)
	if err != nil || len(qs) == 0 {
		return scoring.SectionTally{}, false, err
	}
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	rs, err := s.Repo.ListResponsesForQuestions(ctx, tx, assessmentID, ids)
	if err != nil {
		return scoring.SectionTally{}, false, err
	}
	return scoring.TallySection(qs, rs), true, nil
}

// RecalculateOverall recomputes the overall fields of a questionnaire-mode
// assessment according to its type's grading policy:
//
//   - three_tier sums the stored SectionScore rows. With no rows it is a
//     no-op and prior overall values stay untouched.
//   - five_tier re-tallies every scored section live, grades at
//     90/75/60/50 and stores a per-section snapshot in metadata.
//
// It returns nil for unknown assessments, commodity-mode types and the
// no-op cases above.
func (s *ScoringService) RecalculateOverall(ctx context.Context, assessmentID string) (res *OverallResult, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, tracerName, "scoring.RecalculateOverall",
		attribute.String("assessment.id", assessmentID),
	)
	defer func() {
		observability.ObserveRecalculation(observability.AggOverall, observability.Outcome(res != nil, err), start)
		observability.EndSpan(span, err)
	}()

	err = withLock(ctx, s.Locker, overallLockKey(assessmentID), func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			a, err := s.Repo.GetAssessmentForUpdate(ctx, tx, assessmentID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			at, err := s.Repo.GetAssessmentType(ctx, tx, a.AssessmentTypeID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if at.ScoringMode == domain.ModeCommodity {
				return nil
			}

			var r *OverallResult
			switch at.GradingPolicy {
			case domain.PolicyFiveTier:
				r, err = s.liveOverall(ctx, tx, a)
			default:
				r, err = s.rolledUpOverall(ctx, tx, a)
			}
			if err != nil || r == nil {
				return err
			}
			r.ScoredAt = s.now()
			md := scoredMetadata(a.Metadata, r.Policy, r.ScoredAt)
			if r.Policy == domain.PolicyFiveTier {
				md[MetaSectionScores] = r.Sections
			}
			if err := s.Repo.UpdateAssessmentOverall(ctx, tx, a.ID, repo.OverallUpdate{
				Score:      r.Score,
				MaxScore:   r.MaxScore,
				Percentage: r.Percentage,
				Grade:      r.Grade,
				Metadata:   md,
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
		publishScored(ctx, s.Publisher, domain.ModeQuestionnaire, res)
	}
	return res, nil
}

// rolledUpOverall sums stored SectionScore rows and grades three-tier.
func (s *ScoringService) rolledUpOverall(ctx context.Context, tx *gorm.DB, a *domain.Assessment) (*OverallResult, error) {
	rows, err := s.Repo.ListSectionScores(ctx, tx, a.ID)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	totals := scoring.SumSections(rows)
	grade := scoring.ThreeTier(totals.Percentage)

	snaps := make([]SectionSnapshot, 0, len(rows))
	for _, r := range rows {
		snaps = append(snaps, SectionSnapshot{
			SectionID: r.SectionID,
			SectionTally: scoring.SectionTally{
				TotalScore:        r.TotalScore,
				MaxScore:          r.MaxScore,
				Percentage:        r.Percentage,
				TotalQuestions:    r.TotalQuestions,
				AnsweredQuestions: r.AnsweredQuestions,
				SkippedQuestions:  r.SkippedQuestions,
			},
		})
	}
	return &OverallResult{
		AssessmentID: a.ID,
		Policy:       domain.PolicyThreeTier,
		Score:        totals.Score,
		MaxScore:     totals.MaxScore,
		Percentage:   totals.Percentage,
		Grade:        &grade,
		Sections:     snaps,
	}, nil
}

// liveOverall re-tallies every scored section without reading or writing
// SectionScore rows and grades five-tier. Sections without scored questions
// are skipped; with none left it is a no-op.
func (s *ScoringService) liveOverall(ctx context.Context, tx *gorm.DB, a *domain.Assessment) (*OverallResult, error) {
	sections, err := s.Repo.ListScoredSections(ctx, tx, a.AssessmentTypeID)
	if err != nil {
		return nil, err
	}
	var (
		snaps   []SectionSnapshot
		tallies []scoring.SectionTally
	)
	for _, sec := range sections {
		t, ok, err := s.tally(ctx, tx, a.ID, sec.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		tallies = append(tallies, t)
		snaps = append(snaps, SectionSnapshot{SectionID: sec.ID, Code: sec.Code, Name: sec.Name, SectionTally: t})
	}
	if len(tallies) == 0 {
		return nil, nil
	}
	totals := scoring.SumTallies(tallies)
	grade := scoring.FiveTier(totals.Percentage)
	return &OverallResult{
		AssessmentID: a.ID,
		Policy:       domain.PolicyFiveTier,
		Score:        totals.Score,
		MaxScore:     totals.MaxScore,
		Percentage:   totals.Percentage,
		Grade:        &grade,
		Sections:     snaps,
	}, nil
}

// RecalculateAll recomputes every scored section of the assessment and then
// the overall fields once. Unknown assessments are a no-op.
func (s *ScoringService) RecalculateAll(ctx context.Context, assessmentID string) (*OverallResult, error) {
	a, err := s.Repo.GetAssessment(ctx, s.DB, assessmentID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sections, err := s.Repo.ListScoredSections(ctx, s.DB, a.AssessmentTypeID)
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		if _, err := s.recalculateSection(ctx, a.ID, sec.ID); err != nil {
			return nil, err
		}
	}
	return s.RecalculateOverall(ctx, a.ID)
}

// SectionScores returns the stored section rows of an assessment.
func (s *ScoringService) SectionScores(ctx context.Context, assessmentID string) ([]domain.SectionScore, error) {
	if _, err := s.Repo.GetAssessment(ctx, s.DB, assessmentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return s.Repo.ListSectionScores(ctx, s.DB, assessmentID)
}

// scoredMetadata copies prev and stamps the bookkeeping keys.
func scoredMetadata(prev datatypes.JSONMap, policy domain.GradingPolicy, at time.Time) datatypes.JSONMap {
	md := make(datatypes.JSONMap, len(prev)+3)
	for k, v := range prev {
		md[k] = v
	}
	md[MetaLastScoredAt] = at.UTC().Format(time.RFC3339)
	md[MetaGradingPolicy] = string(policy)
	return md
}

// publishScored emits an AssessmentScored event. Failures are logged only.
func publishScored(ctx context.Context, p Publisher, mode domain.ScoringMode, r *OverallResult) {
	if p == nil {
		return
	}
	err := p.Publish(ctx, AssessmentScored{
		AssessmentID: r.AssessmentID,
		Policy:       r.Policy,
		Mode:         mode,
		Score:        r.Score,
		MaxScore:     r.MaxScore,
		Percentage:   r.Percentage,
		Grade:        r.Grade,
		ScoredAt:     r.ScoredAt,
	})
	if err != nil {
		log.Warn().Err(err).Str("assessment_id", r.AssessmentID).Msg("publish assessment scored")
	}
}
