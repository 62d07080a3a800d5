package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/riskibarqy/matchfeed-loader/db"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/matchfeed-loader/internal/platform/logging"
)

// ErrNoVersion is returned by Version when no migration has been applied.
var ErrNoVersion = migrate.ErrNilVersion

// Provisioner applies the embedded migrations. Each operation opens its own
// migrate instance; the drivers close their connection with it.
type Provisioner struct {
	databaseURL string
	logger      *logging.Logger
}

func NewProvisioner(dialect sqlstore.Dialect, dsn string, logger *logging.Logger) *Provisioner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Provisioner{
		databaseURL: MigrateURL(dialect, dsn),
		logger:      logger,
	}
}

// MigrateURL maps a store DSN onto the URL scheme golang-migrate expects.
// The sqlite URL carries no pragmas, so foreign keys are not enforced while
// tables are dropped.
func MigrateURL(dialect sqlstore.Dialect, dsn string) string {
	if dialect == sqlstore.DialectSQLite {
		return "sqlite://" + sqlstore.SQLitePath(dsn)
	}
	return strings.TrimSpace(dsn)
}

// Reset drops every table and applies all migrations from scratch.
func (p *Provisioner) Reset(ctx context.Context) error {
	if err := p.withMigrator(ctx, func(m *migrate.Migrate) error {
		return m.Drop()
	}); err != nil {
		return crerr.Wrap(err, "drop schema")
	}

	if err := p.Up(ctx); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "schema recreated")
	return nil
}

func (p *Provisioner) Up(ctx context.Context) error {
	err := p.withMigrator(ctx, func(m *migrate.Migrate) error {
		return ignoreNoChange(m.Up())
	})
	if err != nil {
		return crerr.Wrap(err, "apply migrations")
	}
	return nil
}

// Steps migrates n steps forward, or back when n is negative.
func (p *Provisioner) Steps(ctx context.Context, n int) error {
	if n == 0 {
		return nil
	}
	err := p.withMigrator(ctx, func(m *migrate.Migrate) error {
		return ignoreNoChange(m.Steps(n))
	})
	if err != nil {
		return crerr.Wrapf(err, "migrate %d step(s)", n)
	}
	return nil
}

// Migrate moves the schema to exactly the given version.
func (p *Provisioner) Migrate(ctx context.Context, version uint) error {
	err := p.withMigrator(ctx, func(m *migrate.Migrate) error {
		return ignoreNoChange(m.Migrate(version))
	})
	if err != nil {
		return crerr.Wrapf(err, "migrate to version %d", version)
	}
	return nil
}

func (p *Provisioner) Version(ctx context.Context) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := p.withMigrator(ctx, func(m *migrate.Migrate) error {
		var err error
		version, dirty, err = m.Version()
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return version, dirty, nil
}

// Force records version as applied without running it. It clears a dirty flag
// left by a failed migration.
func (p *Provisioner) Force(ctx context.Context, version int) error {
	err := p.withMigrator(ctx, func(m *migrate.Migrate) error {
		return m.Force(version)
	})
	if err != nil {
		return crerr.Wrapf(err, "force version %d", version)
	}
	return nil
}

func (p *Provisioner) withMigrator(ctx context.Context, fn func(m *migrate.Migrate) error) error {
	if p.databaseURL == "" {
		return crerr.New("migration database url is required")
	}

	src, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return crerr.Wrap(err, "open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, p.databaseURL)
	if err != nil {
		return crerr.Wrap(err, "create migrator")
	}
	m.Log = migrateLogger{logger: p.logger}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			p.logger.WarnContext(ctx, "close migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			select {
			case m.GracefulStop <- true:
			default:
			}
		case <-done:
		}
	}()

	if err := fn(m); err != nil {
		return err
	}
	return ctx.Err()
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

type migrateLogger struct {
	logger *logging.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (l migrateLogger) Verbose() bool {
	return false
}
