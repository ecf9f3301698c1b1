// Commodity availability handlers.
//
//   - PUT  /assessments/{id}/commodity-responses                       (save one availability)
//   - POST /assessments/{id}/departments/{departmentId}/initialize     (pre-create the grid)
//   - GET  /assessments/{id}/departments/summary                       (full matrix)
//   - GET  /assessments/{id}/departments/{departmentId}/summary        (one department row)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-assessment-backend/internal/services"
)

// CommodityResponseRequest is the JSON payload for one availability answer.
type CommodityResponseRequest struct {
	CommodityID  string  `json:"commodity_id"  binding:"required" example:"0b7f5c3e-9a51-4c1e-8a0e-2d0a4f6b1c9d"`
	DepartmentID string  `json:"department_id" binding:"required" example:"c2a1e8f0-3b4d-4e6f-9a7b-8c9d0e1f2a3b"`
	Available    *bool   `json:"available"     binding:"required" example:"true"`
	Notes        *string `json:"notes,omitempty" example:"expires next month"`
}

// InitializeDepartmentResponse reports how many empty answers were created.
type InitializeDepartmentResponse struct {
	AssessmentID string `json:"assessment_id"`
	DepartmentID string `json:"department_id"`
	Created      int    `json:"created"`
}

// SaveCommodityResponse godoc
// @ID          saveCommodityResponse
// @Summary     Save a commodity availability
// @Description Upserts one department/commodity answer and recalculates the department-category cell and the overall score.
// @Tags        Commodities
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Assessment ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CommodityResponseRequest  true  "Availability"
//
// @Success     200  {object} services.CommoditySaveResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Assessment, department or commodity not found"
// @Failure     409  {object} handlers.ErrorResponse "Assessment completed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/commodity-responses [put]
func (h *Handlers) SaveCommodityResponse(c *gin.Context) {
	var req CommodityResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "commodity_id, department_id and available are required")
		return
	}

	res, err := h.responses.SaveCommodityResponse(c.Request.Context(), c.Param("id"), services.CommodityInput{
		CommodityID:  req.CommodityID,
		DepartmentID: req.DepartmentID,
		Available:    *req.Available,
		Notes:        req.Notes,
	})
	if err != nil {
		serviceError(c, err, ErrCodeSaveFailed)
		return
	}
	logRecalcErrors(c, res.RecalcErrors)
	ok(c, http.StatusOK, res)
}

// InitializeDepartment godoc
// @ID          initializeDepartment
// @Summary     Initialize a department grid
// @Description Creates an unanswered (not available) row for every commodity applicable to the department. Existing answers are kept.
// @Tags        Commodities
// @Produce     json
//
// @Param       id            path  string  true  "Assessment ID (UUID)"  format(uuid)
// @Param       departmentId  path  string  true  "Department ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.InitializeDepartmentResponse
// @Failure     404  {object} handlers.ErrorResponse "Assessment or department not found"
// @Failure     409  {object} handlers.ErrorResponse "Assessment completed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/departments/{departmentId}/initialize [post]
func (h *Handlers) InitializeDepartment(c *gin.Context) {
	assessmentID, departmentID := c.Param("id"), c.Param("departmentId")
	n, err := h.commodities.InitializeDepartment(c.Request.Context(), assessmentID, departmentID)
	if err != nil {
		serviceError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusOK, InitializeDepartmentResponse{
		AssessmentID: assessmentID,
		DepartmentID: departmentID,
		Created:      n,
	})
}

// CommodityMatrix godoc
// @ID          commodityMatrix
// @Summary     Commodity availability matrix
// @Description Returns every active department with its per-category cells, department totals and the grand total.
// @Tags        Commodities
// @Produce     json
//
// @Param       id  path  string  true  "Assessment ID (UUID)"  format(uuid)
//
// @Success     200  {object} services.CommodityMatrix
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/departments/summary [get]
func (h *Handlers) CommodityMatrix(c *gin.Context) {
	m, err := h.commodities.Matrix(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, m)
}

// DepartmentSummary godoc
// @ID          departmentSummary
// @Summary     Department availability summary
// @Description Returns one department's per-category cells and its total.
// @Tags        Commodities
// @Produce     json
//
// @Param       id            path  string  true  "Assessment ID (UUID)"  format(uuid)
// @Param       departmentId  path  string  true  "Department ID (UUID)"  format(uuid)
//
// @Success     200  {object} services.DepartmentSummary
// @Failure     404  {object} handlers.ErrorResponse "Assessment or department not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/departments/{departmentId}/summary [get]
func (h *Handlers) DepartmentSummary(c *gin.Context) {
	s, err := h.commodities.DepartmentSummary(c.Request.Context(), c.Param("id"), c.Param("departmentId"))
	if err != nil {
		serviceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, s)
}
