// @title       Facility Assessment Scoring API
// @version     1.0
// @description Scores facility assessments: questionnaire sections, overall grades and the commodity availability grid.
// @BasePath    /api/v1

// Command server runs the assessment scoring HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-assessment-backend/internal/config"
	httpapi "github.com/tbourn/go-assessment-backend/internal/http"
	"github.com/tbourn/go-assessment-backend/internal/observability"
	"github.com/tbourn/go-assessment-backend/internal/repo"
	"github.com/tbourn/go-assessment-backend/internal/services"
	"github.com/tbourn/go-assessment-backend/internal/sysutil"
)

// Version is set via ldflags at build time.
var Version = "0.1.0-dev"

func main() {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, "server")
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if cfg.Scoring.SeedDemo {
		if err := repo.SeedDemo(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("seed demo data")
		}
		log.Info().Msg("demo configuration seeded")
	}

	deps := httpapi.Deps{Locker: services.NewMemoryLocker(), Publisher: services.NopPublisher{}}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis ping")
		}
		deps.Locker = services.NewRedisLocker(rdb, cfg.Redis.LockTTL, cfg.Redis.LockWait)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis recalculation lock")
	}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := services.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		deps.Publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing scoring events")
	}

	r := gin.New()
	engine := httpapi.RegisterRoutes(r, db, deps, cfg)

	if cfg.Scoring.ReconcileSchedule != "" {
		rec := services.NewReconciler(db, repo.Store{}, engine)
		if err := rec.Start(cfg.Scoring.ReconcileSchedule); err != nil {
			log.Fatal().Err(err).Msg("start reconciler")
		}
		defer rec.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", Version).Str("db", cfg.DB.Driver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
