package app

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchfeed-loader/internal/config"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/scope"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/schema"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/source/filesystem"
	"github.com/riskibarqy/matchfeed-loader/internal/platform/logging"
	"github.com/riskibarqy/matchfeed-loader/internal/usecase"
)

// Loader holds the wired components for one command invocation.
type Loader struct {
	Config      config.Config
	Logger      *logging.Logger
	Store       *sqlstore.Store
	Provisioner *schema.Provisioner
	Source      *filesystem.Source
	Ingestion   *usecase.IngestionService
}

// NewLoader opens the store and wires the ingestion service from cfg.
func NewLoader(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Loader, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dialect, err := sqlstore.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DBURL
	if dialect == sqlstore.DialectPostgres {
		dsn = normalizeDBURL(dsn, cfg.DBDisablePreparedBinary)
	}
	dbName := dbNameFromURL(dsn)

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Dialect:        dialect,
		DSN:            dsn,
		DBName:         dbName,
		QueryFormatter: formatDBQueryForTrace,
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s store", dialect)
	}

	provisioner := schema.NewProvisioner(dialect, dsn, logger.With("component", "schema"))
	source := filesystem.New(cfg.DataDir)
	ingestion := usecase.NewIngestionService(
		source,
		store,
		provisioner,
		usecase.IngestionConfig{
			Whitelist:    scope.NewWhitelist(cfg.Competitions, cfg.Seasons),
			Workers:      cfg.Workers,
			DecodeWindow: cfg.DecodeWindow,
			ResetSchema:  cfg.ResetSchema,
		},
		logger.With("component", "ingestion"),
	)

	logger.Info("loader ready",
		"db_driver", dialect,
		"db_name", dbName,
		"data_dir", cfg.DataDir,
		"competitions", cfg.Competitions,
		"seasons", cfg.Seasons,
		"workers", cfg.Workers,
	)

	return &Loader{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		Provisioner: provisioner,
		Source:      source,
		Ingestion:   ingestion,
	}, nil
}

// Ingest runs one full ingestion and logs its per-pass summary.
func (l *Loader) Ingest(ctx context.Context) (usecase.RunReport, error) {
	report, err := l.Ingestion.Run(ctx)
	if err != nil {
		return report, err
	}
	for _, pass := range report.Passes {
		l.Logger.DebugContext(ctx, "pass summary",
			"run_id", report.RunID,
			"pass", pass.Pass,
			"inserted", pass.Inserted,
			"skipped", pass.Skipped,
		)
	}
	return report, nil
}

func (l *Loader) Close() error {
	if l == nil || l.Store == nil {
		return nil
	}
	if err := l.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
