// Package httpapi wires the HTTP transport (Gin) to the scoring services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/docs"
	"github.com/tbourn/go-assessment-backend/internal/config"
	"github.com/tbourn/go-assessment-backend/internal/http/handlers"
	"github.com/tbourn/go-assessment-backend/internal/http/middleware"
	"github.com/tbourn/go-assessment-backend/internal/repo"
	"github.com/tbourn/go-assessment-backend/internal/services"
)

// Deps are the process-wide collaborators of the scoring engine. Nil fields
// fall back to an in-process lock and a publisher that drops events.
type Deps struct {
	Locker    services.Locker
	Publisher services.Publisher
}

// corsHeaders are the request headers browser clients may send.
var corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "If-None-Match", middleware.HeaderIdempotencyKey}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and returns the engine the handlers run on, so the caller can share
// it with background jobs.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID, then the request-scoped logger
//  3. RedactingLogger: access log with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, deps Deps, cfg config.Config) *services.Engine {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// 3) Structured access log with redaction; assessment and department
	// ids stay readable so a line can be joined to the audit trail.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
		KeepParams:  []string{"id", "departmentId"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and response compression
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/swagger"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Dependency injection: services ← repo/db/locker/publisher
	locker := deps.Locker
	if locker == nil {
		locker = services.NewMemoryLocker()
	}
	pub := deps.Publisher
	if pub == nil {
		pub = services.NopPublisher{}
	}
	store := repo.Store{}
	engine := services.NewEngine(db, store, locker, pub)
	assessmentSvc := services.NewAssessmentService(db, store, engine)
	responseSvc := services.NewResponseService(db, store, engine)
	if cfg.IdempotencyTTL > 0 {
		responseSvc.IdempotencyTTL = cfg.IdempotencyTTL
	}

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200, Param: "id"},
		func(ctx context.Context, userID, assessmentID, key string, _ time.Time) (bool, error) {
			if assessmentID == "" {
				return false, nil
			}
			return responseSvc.Replayed(ctx, userID, assessmentID, key)
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(assessmentSvc, responseSvc, engine.Scoring, engine.Commodity)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Assessments
		api.POST("/assessments", h.CreateAssessment)
		api.GET("/assessments", h.ListAssessments)
		api.GET("/assessments/:id", h.GetAssessment)
		api.POST("/assessments/:id/recalculate", h.RecalculateAssessment)
		api.POST("/assessments/:id/complete", h.CompleteAssessment)

		// Questionnaire responses and derived scores
		api.PUT("/assessments/:id/responses", h.SaveResponses)
		api.GET("/assessments/:id/section-scores", h.ListSectionScores)

		// Commodity availability
		api.PUT("/assessments/:id/commodity-responses", h.SaveCommodityResponse)
		api.POST("/assessments/:id/departments/:departmentId/initialize", h.InitializeDepartment)
		api.GET("/assessments/:id/departments/summary", h.CommodityMatrix)
		api.GET("/assessments/:id/departments/:departmentId/summary", h.DepartmentSummary)
	}
	return engine
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
