// Package services – Reconciler
//
// Reconciler periodically re-runs the full recalculation for every
// in-progress assessment. Aggregations are idempotent, so a sweep heals any
// derived row left stale by an interrupted save, and it also purges expired
// idempotency records.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// Reconciler runs scheduled recalculation sweeps.
type Reconciler struct {
	DB     *gorm.DB
	Repo   Store
	Engine *Engine

	// Timeout bounds a single sweep.
	Timeout time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewReconciler constructs a Reconciler with a 5 minute sweep timeout.
func NewReconciler(db *gorm.DB, r Store, e *Engine) *Reconciler {
	return &Reconciler{DB: db, Repo: r, Engine: e, Timeout: 5 * time.Minute}
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Assessments int
	Failed      int
	Purged      int64
}

// Sweep recalculates every in-progress assessment. A failing assessment is
// logged and skipped; only listing errors abort the sweep.
func (r *Reconciler) Sweep(ctx context.Context) (SweepResult, error) {
	var out SweepResult
	ids, err := r.Repo.ListAssessmentIDsByStatus(ctx, r.DB, domain.StatusInProgress)
	if err != nil {
		return out, err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		out.Assessments++
		if _, err := r.Engine.RecalculateAll(ctx, id); err != nil {
			out.Failed++
			log.Warn().Err(err).Str("assessment_id", id).Msg("reconcile assessment")
		}
	}

	n, err := r.Repo.PurgeExpiredIdempotency(ctx, r.DB, time.Now().UTC())
	if err != nil {
		log.Warn().Err(err).Msg("purge idempotency records")
	}
	out.Purged = n
	return out, nil
}

// Start schedules Sweep on a standard 5-field cron spec. Overlapping runs
// are skipped.
func (r *Reconciler) Start(spec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, r.tick); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	log.Info().Str("schedule", spec).Msg("reconciler started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

func (r *Reconciler) tick() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		log.Warn().Msg("reconciler sweep still running, skipping")
		return
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	start := time.Now()
	res, err := r.Sweep(ctx)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("assessments", res.Assessments).
		Int("failed", res.Failed).
		Int64("purged", res.Purged).
		Dur("took", time.Since(start)).
		Msg("reconcile sweep")
}
