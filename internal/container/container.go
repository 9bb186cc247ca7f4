// Package container wires the advisor from configuration.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"stataid/adapters/datareadiness"
	"stataid/adapters/excel"
	"stataid/adapters/postgres"
	"stataid/adapters/postgres/migrations"
	"stataid/adapters/stats/engine"
	"stataid/app"
	"stataid/internal/config"
	"stataid/internal/recommender"
	"stataid/internal/resolver"
	"stataid/internal/validation"
	"stataid/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB     *sqlx.DB
	Engine ports.AssumptionTestEngine
	Reader *excel.DataReader

	// Repositories (nil without a database)
	AnalysisRepo ports.AnalysisRepository

	// Services
	Validator   *validation.Validator
	Recommender *recommender.Recommender
	Resolver    *resolver.Resolver
	Advisor     *app.AdvisorService
}

// New creates a container without persistence
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	eng, err := engine.New(cfg.EngineSettings(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create test engine: %w", err)
	}

	profiler := datareadiness.NewProfilerAdapter(nil, cfg.ProfilingSettings(), logger)
	c := &Container{
		Config:      cfg,
		Logger:      logger,
		Engine:      eng,
		Reader:      excel.NewDataReader(excel.DefaultReaderConfig(), logger),
		Validator:   validation.NewValidator(profiler, eng, cfg.ValidationSettings(), logger),
		Recommender: recommender.New(cfg.RecommenderSettings(), logger),
		Resolver:    resolver.New(cfg.ResolverSettings(), logger),
	}
	c.wireAdvisor()

	logger.Info("container initialized",
		zap.String("engine_mode", cfg.Engine.Mode),
		zap.Bool("engine_enabled", eng != nil))
	return c, nil
}

// OpenDatabase connects to the configured store. An empty URL returns nil.
func OpenDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	db, err := sqlx.Connect(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Database.Driver, err)
	}
	return db, nil
}

// InitWithDatabase runs migrations and enables answer persistence
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	if err := migrations.NewMigrator(db, c.Logger).Up(ctx); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.DB = db
	c.AnalysisRepo = postgres.NewAnalysisRepository(db)
	c.wireAdvisor()

	c.Logger.Info("analysis repository enabled", zap.String("driver", db.DriverName()))
	return nil
}

func (c *Container) wireAdvisor() {
	c.Advisor = app.NewAdvisorService(c.Validator, c.Recommender, c.Resolver, c.AnalysisRepo, c.Logger)
}

// Shutdown closes the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
