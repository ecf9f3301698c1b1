package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/scoring"
	"github.com/tbourn/go-assessment-backend/internal/services"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	nameCol    = lipgloss.NewStyle().Width(32)
	numCol     = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)

	gradeColors = map[domain.Grade]lipgloss.Color{
		domain.GradeGreen:            "10",
		domain.GradeExcellent:        "10",
		domain.GradeGood:             "10",
		domain.GradeYellow:           "11",
		domain.GradeSatisfactory:     "11",
		domain.GradeNeedsImprovement: "11",
		domain.GradeRed:              "9",
		domain.GradePoor:             "9",
	}

	titleCaser = cases.Title(language.English)
)

// gradeLabel turns "needs-improvement" into "Needs Improvement"; a nil grade
// is shown as "-".
func gradeLabel(g *domain.Grade) string {
	if g == nil {
		return "-"
	}
	return titleCaser.String(strings.ReplaceAll(string(*g), "-", " "))
}

func styledGrade(g *domain.Grade) string {
	label := gradeLabel(g)
	if g == nil {
		return dimStyle.Render(label)
	}
	return lipgloss.NewStyle().Foreground(gradeColors[*g]).Render(label)
}

func pct(p float64) string { return fmt.Sprintf("%.2f%%", p) }

func renderRecalc(id string, res *services.OverallResult) string {
	if res == nil {
		return fmt.Sprintf("%s  %s", id, dimStyle.Render("nothing to score"))
	}
	return fmt.Sprintf("%s  %g/%g  %s  %s", id, res.Score, res.MaxScore, pct(res.Percentage), styledGrade(res.Grade))
}

func renderRecalcError(id string, err error) string {
	return fmt.Sprintf("%s  %s", id, errStyle.Render(err.Error()))
}

func row(name string, cols ...string) string {
	var b strings.Builder
	b.WriteString(nameCol.Render(name))
	for _, c := range cols {
		b.WriteString(numCol.Render(c))
	}
	b.WriteByte('\n')
	return b.String()
}

func availability(t scoring.AvailabilityTally) []string {
	return []string{fmt.Sprintf("%d/%d", t.AvailableCount, t.TotalApplicable), pct(t.Percentage), gradeLabel(t.Grade)}
}

func renderScorecard(sc *scorecard) string {
	var b strings.Builder
	a := sc.Assessment

	b.WriteString(titleStyle.Render(a.FacilityName))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s · %s", sc.Type.Name, a.Status, sc.Type.GradingPolicy)))
	b.WriteString("\n\n")

	switch {
	case sc.Matrix != nil:
		b.WriteString(row("DEPARTMENT / CATEGORY", "AVAILABLE", "PERCENT", "GRADE"))
		for _, d := range sc.Matrix.Departments {
			b.WriteString(row(titleStyle.Render(d.DepartmentName), availability(d.Total)...))
			for _, c := range d.Categories {
				b.WriteString(row("  "+c.CategoryName, availability(c.AvailabilityTally)...))
			}
		}
		b.WriteString(row(titleStyle.Render("Grand total"), availability(sc.Matrix.GrandTotal)...))
	default:
		b.WriteString(row("SECTION", "SCORE", "ANSWERED", "PERCENT"))
		for _, s := range sc.Sections {
			name := s.Name
			if name == "" {
				name = s.Score.SectionID
			}
			b.WriteString(row(name,
				fmt.Sprintf("%g/%g", s.Score.TotalScore, s.Score.MaxScore),
				fmt.Sprintf("%d/%d", s.Score.AnsweredQuestions, s.Score.TotalQuestions),
				pct(s.Score.Percentage),
			))
		}
	}

	b.WriteString("\n")
	if a.OverallPercentage == nil {
		b.WriteString(dimStyle.Render("Overall: not scored yet"))
	} else {
		fmt.Fprintf(&b, "Overall: %s  %s", pct(*a.OverallPercentage), styledGrade(a.OverallGrade))
	}
	b.WriteString("\n")
	return b.String()
}
