package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/http/middleware"
	"github.com/tbourn/go-assessment-backend/internal/services"
	"github.com/tbourn/go-assessment-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AssessmentService covers the assessment lifecycle.
type AssessmentService interface {
	// Create starts a draft assessment of the type identified by id or code.
	Create(ctx context.Context, typeRef, facility, assessorID string) (*domain.Assessment, error)
	Get(ctx context.Context, id string) (*domain.Assessment, error)
	// ListPage returns a page of assessments, optionally filtered by status.
	ListPage(ctx context.Context, status string, page, pageSize int) ([]domain.Assessment, int64, error)
	// Stats returns the row count and latest update for the list ETag.
	Stats(ctx context.Context, status string) (int64, *time.Time, error)
	// Complete runs a full recalculation and closes the assessment.
	Complete(ctx context.Context, id string) (*domain.Assessment, error)
	// Recalculate re-derives every score of the assessment.
	Recalculate(ctx context.Context, id string) (*domain.Assessment, *services.OverallResult, error)
}

// ResponseService is the save path.
type ResponseService interface {
	SaveResponses(ctx context.Context, assessmentID string, inputs []services.ResponseInput) (*services.SaveResult, error)
	SaveCommodityResponse(ctx context.Context, assessmentID string, in services.CommodityInput) (*services.CommoditySaveResult, error)
	// Replayed reports whether key was already applied for (user, assessment).
	Replayed(ctx context.Context, userID, assessmentID, key string) (bool, error)
	// Remember records key after a successful save.
	Remember(ctx context.Context, userID, assessmentID, key string, status int) error
}

// ScoreService reads derived section scores.
type ScoreService interface {
	SectionScores(ctx context.Context, assessmentID string) ([]domain.SectionScore, error)
}

// CommodityService covers the availability grid.
type CommodityService interface {
	InitializeDepartment(ctx context.Context, assessmentID, departmentID string) (int, error)
	DepartmentSummary(ctx context.Context, assessmentID, departmentID string) (*services.DepartmentSummary, error)
	Matrix(ctx context.Context, assessmentID string) (*services.CommodityMatrix, error)
}

//
// Handler wiring
//

// Handlers groups the assessment API endpoints.
type Handlers struct {
	assessments AssessmentService
	responses   ResponseService
	scores      ScoreService
	commodities CommodityService
}

// New binds Handlers to its services.
func New(a AssessmentService, r ResponseService, s ScoreService, c CommodityService) *Handlers {
	return &Handlers{assessments: a, responses: r, scores: s, commodities: c}
}

// userID returns the caller set by upstream auth, then X-User-ID, then
// "demo-user". It identifies the assessor and scopes idempotency keys.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

// clampPagination reads page and page_size, defaulting to 1 and 20 and
// capping page_size at 100.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// serviceError maps a service error onto the API envelope. Unknown errors
// become 500 with fallbackCode.
func serviceError(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrAssessmentNotFound),
		errors.Is(err, services.ErrAssessmentTypeNotFound),
		errors.Is(err, services.ErrDepartmentNotFound),
		errors.Is(err, services.ErrCommodityNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrAssessmentCompleted):
		fail(c, http.StatusConflict, ErrCodeAssessmentCompleted, err.Error())
	case errors.Is(err, services.ErrInvalidResponse),
		errors.Is(err, services.ErrInvalidAssessment):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, services.ErrLockTimeout):
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, ErrCodeBusy, "scores are being recalculated, retry shortly")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusGatewayTimeout, ErrCodeInternal, "request cancelled")
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

// logRecalcErrors notes a save that succeeded with stale derived scores.
func logRecalcErrors(c *gin.Context, errs []string) {
	if len(errs) == 0 {
		return
	}
	middleware.LoggerFrom(c).Warn().Strs("recalc_errors", errs).Msg("saved with stale scores")
}
