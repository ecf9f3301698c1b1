// Assessment HTTP handlers.
//
//   - POST /assessments                     (create)
//   - GET  /assessments                     (list, paginated, ETag support)
//   - GET  /assessments/{id}                (read)
//   - POST /assessments/{id}/recalculate    (full recalculation)
//   - POST /assessments/{id}/complete       (recalculate and close)
//   - GET  /assessments/{id}/section-scores (derived section rows)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/services"
)

//
// DTOs
//

// CreateAssessmentRequest is the JSON payload for starting an assessment.
type CreateAssessmentRequest struct {
	// AssessmentType is the type's id or code.
	AssessmentType string `json:"assessment_type" binding:"required" example:"ipc-walkthrough"`
	FacilityName   string `json:"facility_name"   binding:"required" example:"District Hospital North"`
}

// ListAssessmentsResponse wraps a page of assessments.
type ListAssessmentsResponse struct {
	Assessments []domain.Assessment `json:"assessments"`
	Pagination  Pagination          `json:"pagination"`
}

// RecalculateResponse carries the refreshed assessment and, when an overall
// was written, the breakdown that produced it.
type RecalculateResponse struct {
	Assessment *domain.Assessment      `json:"assessment"`
	Result     *services.OverallResult `json:"result,omitempty"`
}

// SectionScoresResponse lists the stored section roll-ups.
type SectionScoresResponse struct {
	AssessmentID  string                `json:"assessment_id"`
	SectionScores []domain.SectionScore `json:"section_scores"`
}

//
// Handlers
//

// CreateAssessment godoc
// @ID          createAssessment
// @Summary     Start an assessment
// @Description Creates a draft assessment of the given type for a facility. The caller becomes the assessor.
// @Tags        Assessments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Assessor ID (demo header)"  example(assessor-17)
// @Param       body       body    handlers.CreateAssessmentRequest  true  "Create assessment payload"
//
// @Success     201  {object}  domain.Assessment
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Assessment type not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /assessments [post]
func (h *Handlers) CreateAssessment(c *gin.Context) {
	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "assessment_type and facility_name are required")
		return
	}

	a, err := h.assessments.Create(c.Request.Context(), strings.TrimSpace(req.AssessmentType), req.FacilityName, userID(c))
	if err != nil {
		serviceError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, a)
}

// ListAssessments godoc
// @ID          listAssessments
// @Summary     List assessments (paginated)
// @Description Returns a page of assessments, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Assessments
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"assessments:all:3:1724310000\")
// @Param       status         query   string  false "Filter by status"  Enums(draft, in_progress, completed)
// @Param       page           query   int     false "Page number"       minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"    minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListAssessmentsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments [get]
func (h *Handlers) ListAssessments(c *gin.Context) {
	ctx := c.Request.Context()
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !domain.AssessmentStatus(status).Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be draft, in_progress or completed")
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.assessments.Stats(ctx, status); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		scope := status
		if scope == "" {
			scope = "all"
		}
		etag := fmt.Sprintf(`W/"assessments:%s:%d:%d:%d:%d"`, scope, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.assessments.ListPage(ctx, status, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListAssessmentsResponse{
		Assessments: items,
		Pagination:  newPagination(page, pageSize, total),
	})
}

// GetAssessment godoc
// @ID          getAssessment
// @Summary     Get an assessment
// @Description Returns the assessment with its derived overall score, grade and scoring metadata.
// @Tags        Assessments
// @Produce     json
//
// @Param       id  path  string  true  "Assessment ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Assessment
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id} [get]
func (h *Handlers) GetAssessment(c *gin.Context) {
	a, err := h.assessments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, a)
}

// RecalculateAssessment godoc
// @ID          recalculateAssessment
// @Summary     Recalculate all scores
// @Description Re-derives every section or department-category score and the overall score from the stored responses.
// @Tags        Assessments
// @Produce     json
//
// @Param       id  path  string  true  "Assessment ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.RecalculateResponse
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Failure     503  {object} handlers.ErrorResponse "Recalculation in progress"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/recalculate [post]
func (h *Handlers) RecalculateAssessment(c *gin.Context) {
	a, res, err := h.assessments.Recalculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err, ErrCodeRecalcFailed)
		return
	}
	ok(c, http.StatusOK, RecalculateResponse{Assessment: a, Result: res})
}

// CompleteAssessment godoc
// @ID          completeAssessment
// @Summary     Complete an assessment
// @Description Runs a full recalculation and marks the assessment completed. Completed assessments reject further answers.
// @Tags        Assessments
// @Produce     json
//
// @Param       id  path  string  true  "Assessment ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Assessment
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Failure     409  {object} handlers.ErrorResponse "Already completed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/complete [post]
func (h *Handlers) CompleteAssessment(c *gin.Context) {
	a, err := h.assessments.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err, ErrCodeRecalcFailed)
		return
	}
	ok(c, http.StatusOK, a)
}

// ListSectionScores godoc
// @ID          listSectionScores
// @Summary     List section scores
// @Description Returns the stored per-section roll-ups of a questionnaire assessment in section order.
// @Tags        Scores
// @Produce     json
//
// @Param       id  path  string  true  "Assessment ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.SectionScoresResponse
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/section-scores [get]
func (h *Handlers) ListSectionScores(c *gin.Context) {
	id := c.Param("id")
	rows, err := h.scores.SectionScores(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, ErrCodeListFailed)
		return
	}
	if rows == nil {
		rows = []domain.SectionScore{}
	}
	ok(c, http.StatusOK, SectionScoresResponse{AssessmentID: id, SectionScores: rows})
}
