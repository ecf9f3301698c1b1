// Response submission handler.
//
// PUT /assessments/{id}/responses upserts a batch of answers and returns the
// recalculated section and overall scores.
//
// Idempotency:
// When the client sends an Idempotency-Key that was already applied for this
// user and assessment, the answers are not written again; the handler returns
// the current scores and sets `Idempotency-Replayed: true`.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/http/middleware"
	"github.com/tbourn/go-assessment-backend/internal/services"
)

// ResponseItem is one answer. Location is only meaningful for matrix
// questions and is ignored otherwise.
type ResponseItem struct {
	QuestionID  string         `json:"question_id" example:"5f0c6d7e-1c1b-4f43-8e8f-3a7b0c1d2e3f"`
	Location    string         `json:"location,omitempty" example:"ward-a"`
	Value       *string        `json:"value" example:"yes"`
	Explanation *string        `json:"explanation,omitempty" example:"soap dispenser empty in two rooms"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SaveResponsesRequest is the JSON payload for a batch of answers.
type SaveResponsesRequest struct {
	Responses []ResponseItem `json:"responses" binding:"required"`
}

func (r SaveResponsesRequest) inputs() []services.ResponseInput {
	out := make([]services.ResponseInput, 0, len(r.Responses))
	for _, it := range r.Responses {
		out = append(out, services.ResponseInput{
			QuestionID:  it.QuestionID,
			Location:    it.Location,
			Value:       it.Value,
			Explanation: it.Explanation,
			Metadata:    it.Metadata,
		})
	}
	return out
}

// SaveResponses godoc
// @ID          saveResponses
// @Summary     Save responses
// @Description Upserts answers, resolves each answer's score, and recalculates the touched sections and the overall score.
// @Description Recalculation failures are reported in recalc_errors and do not fail the save.
// @Description Supports idempotency via the Idempotency-Key header (same key → current scores, no second write).
// @Tags        Responses
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(assessor-17)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Assessment ID (UUID)"  format(uuid)
// @Param       body             body    handlers.SaveResponsesRequest  true  "Answers"
//
// @Success     200  {object} services.SaveResult
// @Header      200  {string} Idempotency-Replayed "true when served from a previous submission"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Failure     409  {object} handlers.ErrorResponse "Assessment completed"
// @Failure     429  {object} handlers.ErrorResponse "Too many requests"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessments/{id}/responses [put]
func (h *Handlers) SaveResponses(c *gin.Context) {
	ctx := c.Request.Context()
	assessmentID := c.Param("id")
	uid := userID(c)

	var req SaveResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "responses array required")
		return
	}

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		replayed := middleware.IsReplay(c)
		if !replayed {
			replayed, _ = h.responses.Replayed(ctx, uid, assessmentID, idemKey)
		}
		if replayed {
			h.replay(c, assessmentID)
			return
		}
	}

	res, err := h.responses.SaveResponses(ctx, assessmentID, req.inputs())
	if err != nil {
		serviceError(c, err, ErrCodeSaveFailed)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if err := h.responses.Remember(ctx, uid, assessmentID, idemKey, http.StatusOK); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}
	logRecalcErrors(c, res.RecalcErrors)
	ok(c, http.StatusOK, res)
}

// replay answers a repeated submission with the current scores.
func (h *Handlers) replay(c *gin.Context, assessmentID string) {
	ctx := c.Request.Context()
	a, err := h.assessments.Get(ctx, assessmentID)
	if err != nil {
		serviceError(c, err, ErrCodeSaveFailed)
		return
	}
	scores, err := h.scores.SectionScores(ctx, assessmentID)
	if err != nil {
		serviceError(c, err, ErrCodeSaveFailed)
		return
	}
	c.Header("Idempotency-Replayed", "true")
	ok(c, http.StatusOK, services.SaveResult{
		Responses:     []domain.Response{},
		SectionScores: scores,
		Assessment:    a,
	})
}
