// Package services defines the business logic of the assessment scoring
// engine. This file centralizes the service-level error values returned by
// API-facing operations so callers can check them with errors.Is.
//
// The aggregators themselves never report missing configuration or empty
// applicable sets as errors; they return a nil result instead. These errors
// exist for request validation only, and translation into HTTP status codes
// is performed at the handler layer.
package services

import "errors"

// Assessment-related errors.
var (
	// ErrAssessmentNotFound indicates that the referenced assessment does not exist.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrAssessmentTypeNotFound indicates that the referenced assessment type
	// (by id or code) does not exist.
	ErrAssessmentTypeNotFound = errors.New("assessment type not found")

	// ErrAssessmentCompleted is returned when responses are submitted to, or
	// completion is requested for, an assessment that is already completed.
	ErrAssessmentCompleted = errors.New("assessment already completed")

	// ErrInvalidAssessment is returned when a create request is missing
	// required fields.
	ErrInvalidAssessment = errors.New("facility name and assessment type are required")
)

// Response-related errors.
var (
	// ErrInvalidResponse is returned when a submission is empty or a row is
	// missing its question identifier.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrCommodityNotFound indicates that the referenced commodity does not
	// exist or does not apply to the department.
	ErrCommodityNotFound = errors.New("commodity not found")

	// ErrDepartmentNotFound indicates that the referenced department does not exist.
	ErrDepartmentNotFound = errors.New("department not found")
)
