package domain

// GradingPolicy selects how an assessment's overall percentage is mapped to
// a grade, and which overall aggregation produces it.
type GradingPolicy string

const (
	// PolicyThreeTier rolls SectionScore rows up and grades green/yellow/red at 80/50.
	PolicyThreeTier GradingPolicy = "three_tier"
	// PolicyFiveTier re-iterates scored sections live and grades
	// excellent/good/satisfactory/needs-improvement/poor at 90/75/60/50.
	PolicyFiveTier GradingPolicy = "five_tier"
)

// Valid reports whether p is a known policy.
func (p GradingPolicy) Valid() bool {
	return p == PolicyThreeTier || p == PolicyFiveTier
}

// ScoringMode selects the data that feeds an assessment's overall fields.
type ScoringMode string

const (
	ModeQuestionnaire ScoringMode = "questionnaire"
	ModeCommodity     ScoringMode = "commodity"
)

// Valid reports whether m is a known mode.
func (m ScoringMode) Valid() bool {
	return m == ModeQuestionnaire || m == ModeCommodity
}

// Grade is a coarse qualitative label derived from a percentage.
type Grade string

// Three-tier grades.
const (
	GradeGreen  Grade = "green"
	GradeYellow Grade = "yellow"
	GradeRed    Grade = "red"
)

// Five-tier grades.
const (
	GradeExcellent        Grade = "excellent"
	GradeGood             Grade = "good"
	GradeSatisfactory     Grade = "satisfactory"
	GradeNeedsImprovement Grade = "needs-improvement"
	GradePoor             Grade = "poor"
)

// AssessmentStatus is the lifecycle state of an assessment.
type AssessmentStatus string

const (
	StatusDraft      AssessmentStatus = "draft"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
)

// Valid reports whether s is a known status.
func (s AssessmentStatus) Valid() bool {
	return s == StatusDraft || s == StatusInProgress || s == StatusCompleted
}

// ResponseType is the answer format of a question.
type ResponseType string

const (
	ResponseYesNo        ResponseType = "yes_no"
	ResponseYesNoPartial ResponseType = "yes_no_partial"
	ResponseNumber       ResponseType = "number"
	ResponseText         ResponseType = "text"
	ResponseSelect       ResponseType = "select"
	ResponseRadio        ResponseType = "radio"
	ResponseProportion   ResponseType = "proportion"
	ResponseMatrix       ResponseType = "matrix"
	ResponseUnitCapacity ResponseType = "unit_capacity"
)
