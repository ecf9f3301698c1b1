// Command scorectl is the operator CLI of the scoring engine: it re-runs
// recalculations and prints scorecards straight from the database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-assessment-backend/internal/config"
	"github.com/tbourn/go-assessment-backend/internal/domain"
	"github.com/tbourn/go-assessment-backend/internal/repo"
	"github.com/tbourn/go-assessment-backend/internal/services"
	"github.com/tbourn/go-assessment-backend/internal/sysutil"
)

type options struct {
	driver   string
	dsn      string
	logLevel string
	asJSON   bool

	cfg config.Config
	db  *gorm.DB
	eng *services.Engine
	// closers run after the command, in reverse order.
	closers []func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "scorectl",
		Short:        "Operate the assessment scoring engine",
		Long:         "scorectl recalculates assessment scores and prints scorecards using the same configuration as the server (environment or .env).",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return o.close()
		},
	}
	root.PersistentFlags().StringVar(&o.driver, "driver", "", "Database driver (sqlite|postgres); defaults to DB_DRIVER")
	root.PersistentFlags().StringVar(&o.dsn, "dsn", "", "SQLite path or Postgres URL; defaults to DB_PATH / DATABASE_URL")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	root.AddCommand(newRecalcCmd(o), newShowCmd(o), newSweepCmd(o))
	return root
}

// open loads configuration, connects to the database and wires the engine
// with the same lock and event backends the server uses.
func (o *options) open(ctx context.Context) error {
	_ = godotenv.Load()
	sysutil.SetupLogger(o.logLevel, true, "scorectl")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.cfg = cfg
	driver := sysutil.FirstNonEmpty(o.driver, cfg.DB.Driver)
	dsn := o.dsn
	if dsn == "" {
		dsn = config.DBConfig{Driver: driver, Path: cfg.DB.Path, URL: cfg.DB.URL}.DSN()
	}

	db, err := repo.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	o.db = db
	if sqlDB, err := db.DB(); err == nil {
		o.closers = append(o.closers, sqlDB.Close)
	}

	var locker services.Locker = services.NewMemoryLocker()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		o.closers = append(o.closers, rdb.Close)
		locker = services.NewRedisLocker(rdb, cfg.Redis.LockTTL, cfg.Redis.LockWait)
	}
	var pub services.Publisher = services.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := services.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		o.closers = append(o.closers, kp.Close)
		pub = kp
	}
	o.eng = services.NewEngine(db, repo.Store{}, locker, pub)
	return nil
}

func (o *options) close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		errs = append(errs, o.closers[i]())
	}
	o.closers = nil
	return errors.Join(errs...)
}

func newRecalcCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc <assessment-id>...",
		Short: "Recalculate every score of one or more assessments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, id := range args {
				res, err := o.eng.RecalculateAll(cmd.Context(), id)
				if err != nil {
					failed++
					fmt.Fprintln(cmd.ErrOrStderr(), renderRecalcError(id, err))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRecalc(id, res))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d recalculations failed", failed, len(args))
			}
			return nil
		},
	}
}

func newShowCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <assessment-id>",
		Short: "Print the stored scorecard of an assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScorecard(cmd.Context(), o.db, o.eng, args[0])
			if err != nil {
				return err
			}
			if o.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sc)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderScorecard(sc))
			return nil
		},
	}
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newSweepCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reconciliation sweep over in-progress assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec := services.NewReconciler(o.db, repo.Store{}, o.eng)
			res, err := rec.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "swept %d assessments, %d failed, %d idempotency records purged\n",
				res.Assessments, res.Failed, res.Purged)
			return nil
		},
	}
}

// scorecard is everything show prints.
type scorecard struct {
	Assessment *domain.Assessment        `json:"assessment"`
	Type       *domain.AssessmentType    `json:"assessment_type"`
	Sections   []sectionLine             `json:"sections,omitempty"`
	Matrix     *services.CommodityMatrix `json:"commodity_matrix,omitempty"`
}

type sectionLine struct {
	Code  string              `json:"code"`
	Name  string              `json:"name"`
	Score domain.SectionScore `json:"score"`
}

func loadScorecard(ctx context.Context, db *gorm.DB, eng *services.Engine, id string) (*scorecard, error) {
	store := repo.Store{}
	a, err := store.GetAssessmentWithType(ctx, db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, services.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.AssessmentType.ID == "" {
		return nil, services.ErrAssessmentTypeNotFound
	}
	at := a.AssessmentType
	sc := &scorecard{Assessment: a, Type: &at}

	if at.ScoringMode == domain.ModeCommodity {
		m, err := eng.Commodity.Matrix(ctx, id)
		if err != nil {
			return nil, err
		}
		sc.Matrix = m
		return sc, nil
	}

	rows, err := eng.Scoring.SectionScores(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		line := sectionLine{Score: r}
		if s, err := store.GetSection(ctx, db, r.SectionID); err == nil {
			line.Code, line.Name = s.Code, s.Name
		}
		sc.Sections = append(sc.Sections, line)
	}
	return sc, nil
}
