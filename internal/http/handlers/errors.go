// Package handlers defines the error codes returned in ErrorResponse.code.
//
// Generic codes mirror HTTP status semantics. Domain codes name failures a
// client can act on without parsing the message, e.g. retrying a save that
// hit scoring_busy or stopping edits after assessment_completed.
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "assessment_completed",
//	  "message": "assessment is completed"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeValidation          = "validation_failed"
	ErrCodeAssessmentCompleted = "assessment_completed"
	ErrCodeBusy                = "scoring_busy"
	ErrCodeCreateFailed        = "create_failed"
	ErrCodeListFailed          = "list_failed"
	ErrCodeSaveFailed          = "save_failed"
	ErrCodeRecalcFailed        = "recalculation_failed"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)
