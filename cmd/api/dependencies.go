package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	analyticshandler "github.com/ledgerkeep/ledgerkeep/internal/domain/analytics/handler"
	analyticsrepo "github.com/ledgerkeep/ledgerkeep/internal/domain/analytics/repository"
	ingesthandler "github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/handler"
	ingestrepo "github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/repository"
	ingestservice "github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/service"
	txhandler "github.com/ledgerkeep/ledgerkeep/internal/domain/transaction/handler"

	"github.com/ledgerkeep/ledgerkeep/pkg/config"
	"github.com/ledgerkeep/ledgerkeep/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	Store         ingestrepo.Store
	AnalyticsRepo *analyticsrepo.PostgresRepository

	// Services
	Queue         *ingestservice.Queue
	IngestService *ingestservice.IngestService

	// Handlers
	UploadHandler      *ingesthandler.UploadHandler
	TransactionHandler *txhandler.TransactionHandler
	AnalyticsHandler   *analyticshandler.AnalyticsHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initServices(ctx)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() {
	d.Store = ingestrepo.NewPostgresStore(d.DB.Pool)
	d.AnalyticsRepo = analyticsrepo.NewPostgresRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

// initServices wires the ingestion queue and starts its worker pool
func (d *Dependencies) initServices(ctx context.Context) {
	d.Queue = ingestservice.NewQueue(d.Config.Upload.QueueSize)
	d.IngestService = ingestservice.NewIngestService(d.Store, d.Queue, d.Logger)
	d.IngestService.Start(ctx, d.Config.Upload.Workers)

	d.Logger.Info("ingestion workers started", "workers", d.Config.Upload.Workers)
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.UploadHandler = ingesthandler.NewUploadHandler(
		d.IngestService, d.Logger, d.Config.Upload.TempDir, d.Config.Upload.MaxSizeBytes)
	d.TransactionHandler = txhandler.NewTransactionHandler(d.Store, d.Logger)
	d.AnalyticsHandler = analyticshandler.NewAnalyticsHandler(d.AnalyticsRepo, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup drains in-flight ingestion work and closes all resources
func (d *Dependencies) Cleanup() {
	if d.Queue != nil {
		d.Queue.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
