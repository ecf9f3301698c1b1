package scoring

import (
	"testing"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, max, want float64
	}{
		{2, 3, 66.67},
		{1, 3, 33.33},
		{2, 5, 40},
		{0, 0, 0},
		{5, 0, 0},
		{3, -1, 0},
		{4, 4, 100},
	}
	for _, c := range cases {
		if got := Percentage(c.score, c.max); got != c.want {
			t.Fatalf("Percentage(%v,%v) = %v; want %v", c.score, c.max, got, c.want)
		}
	}
}

func TestThreeTierBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want domain.Grade
	}{
		{100, domain.GradeGreen},
		{80, domain.GradeGreen},
		{79.99, domain.GradeYellow},
		{50, domain.GradeYellow},
		{49.99, domain.GradeRed},
		{40, domain.GradeRed},
		{0, domain.GradeRed},
	}
	for _, c := range cases {
		if got := Grade(domain.PolicyThreeTier, c.pct); got != c.want {
			t.Fatalf("three-tier %v = %q; want %q", c.pct, got, c.want)
		}
	}
}

func TestFiveTierBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want domain.Grade
	}{
		{90, domain.GradeExcellent},
		{89.99, domain.GradeGood},
		{75, domain.GradeGood},
		{74.99, domain.GradeSatisfactory},
		{60, domain.GradeSatisfactory},
		{59.99, domain.GradeNeedsImprovement},
		{50, domain.GradeNeedsImprovement},
		{49.99, domain.GradePoor},
	}
	for _, c := range cases {
		if got := Grade(domain.PolicyFiveTier, c.pct); got != c.want {
			t.Fatalf("five-tier %v = %q; want %q", c.pct, got, c.want)
		}
	}
}

func TestGrade_UnknownPolicyIsThreeTier(t *testing.T) {
	if got := Grade("", 80); got != domain.GradeGreen {
		t.Fatalf("got %q", got)
	}
}

func TestAvailabilityGrade(t *testing.T) {
	if g := AvailabilityGrade(0); g != nil {
		t.Fatalf("0%% must have nil grade, got %q", *g)
	}
	if g := AvailabilityGrade(0.01); g == nil || *g != domain.GradeRed {
		t.Fatalf("0.01%% should be red, got %v", g)
	}
	if g := AvailabilityGrade(40); g == nil || *g != domain.GradeRed {
		t.Fatalf("40%% should be red, got %v", g)
	}
	if g := AvailabilityGrade(80); g == nil || *g != domain.GradeGreen {
		t.Fatalf("80%% should be green, got %v", g)
	}
}
