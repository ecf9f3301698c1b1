package scoring

import (
	"encoding/json"
	"testing"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func strp(s string) *string { return &s }

func TestResolve(t *testing.T) {
	m := map[string]any{
		"Yes":     1,
		"partial": "0.5",
		"no":      0.0,
		"n/a":     nil,
		"bogus":   "abc",
		"num":     json.Number("2"),
		"flag":    true,
	}
	cases := []struct {
		name    string
		value   *string
		want    float64
		counted bool
	}{
		{"exact", strp("Yes"), 1, true},
		{"case and whitespace differ", strp("YES "), 0, false},
		{"lower-case key", strp("yes"), 0, false},
		{"numeric string", strp("partial"), 0.5, true},
		{"zero counts", strp("no"), 0, true},
		{"null mapping", strp("n/a"), 0, false},
		{"uncoercible", strp("bogus"), 0, false},
		{"json number", strp("num"), 2, true},
		{"bool", strp("flag"), 1, true},
		{"unmapped", strp("maybe"), 0, false},
		{"nil value", nil, 0, false},
		{"blank value", strp("   "), 0, false},
	}
	for _, c := range cases {
		got, ok := Resolve(m, c.value)
		if ok != c.counted || got != c.want {
			t.Fatalf("%s: Resolve = (%v,%v); want (%v,%v)", c.name, got, ok, c.want, c.counted)
		}
	}

	if _, ok := Resolve(nil, strp("yes")); ok {
		t.Fatalf("nil map should never count")
	}
}

func TestResolveResponse(t *testing.T) {
	q := domain.Question{ID: "q1", IsScored: true, ScoringMap: map[string]any{"yes": 1}}
	if s := ResolveResponse(q, domain.Response{ResponseValue: strp("yes")}); s == nil || *s != 1 {
		t.Fatalf("expected score 1, got %v", s)
	}
	if s := ResolveResponse(q, domain.Response{ResponseValue: strp("no")}); s != nil {
		t.Fatalf("expected nil for unmapped, got %v", *s)
	}
	if s := ResolveResponse(q, domain.Response{ResponseValue: strp("YES ")}); s != nil {
		t.Fatalf("near-miss key must not be scored, got %v", *s)
	}
	q.IsScored = false
	if s := ResolveResponse(q, domain.Response{ResponseValue: strp("yes")}); s != nil {
		t.Fatalf("unscored question must not be scored, got %v", *s)
	}
}
