// Package scoring holds the pure scoring math of the assessment engine:
// scoring-map resolution, percentage and grade policies, and the per-section
// and per-cell tallies the aggregators persist. Nothing here touches the
// database; callers load rows and hand them in.
package scoring

import (
	"github.com/spf13/cast"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// Resolve maps a raw response value to points using a question's scoring map.
//
// Keys match exactly: "YES " is not "yes". The second return value is false
// when the value is nil or unmapped, or when it maps to null or to something
// that is not a number. Resolution never fails loudly.
func Resolve(scoringMap map[string]any, value *string) (float64, bool) {
	if value == nil || len(scoringMap) == 0 {
		return 0, false
	}
	raw, ok := scoringMap[*value]
	if !ok || raw == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ResolveResponse computes the score written back onto a single response row.
// Unscored questions and unmapped values yield nil. Matrix rows are resolved
// one location at a time; averaging happens at tally time.
func ResolveResponse(q domain.Question, r domain.Response) *float64 {
	if !q.IsScored {
		return nil
	}
	s, ok := Resolve(q.ScoringMap, r.ResponseValue)
	if !ok {
		return nil
	}
	return &s
}
