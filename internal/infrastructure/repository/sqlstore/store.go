package sqlstore

import (
	"context"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func init() {
	// sqlx only knows the cgo driver name; modernc registers itself as "sqlite".
	sqlx.BindDriver(string(DialectSQLite), sqlx.QUESTION)
}

func ParseDialect(raw string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", raw)
	}
}

func (d Dialect) dbSystem() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgresql"
}

type Options struct {
	Dialect Dialect
	// DSN is a postgres connection URL, or a file path for sqlite.
	DSN    string
	DBName string
	// QueryFormatter rewrites statements before they are attached to spans.
	QueryFormatter func(query string) string
}

// Store is the relational persistence gateway. Every pass runs in its own transaction.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	dsn := strings.TrimSpace(opts.DSN)
	if dsn == "" {
		return nil, crerr.New("database dsn is required")
	}

	traceOpts := []otelsql.Option{otelsql.WithDBSystem(opts.Dialect.dbSystem())}
	if opts.DBName != "" {
		traceOpts = append(traceOpts, otelsql.WithDBName(opts.DBName))
	}
	if opts.QueryFormatter != nil {
		traceOpts = append(traceOpts, otelsql.WithQueryFormatter(opts.QueryFormatter))
	}

	if opts.Dialect == DialectSQLite {
		dsn = SQLiteDSN(dsn)
	}
	db, err := otelsqlx.Open(string(opts.Dialect), dsn, traceOpts...)
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s database", opts.Dialect)
	}
	if opts.Dialect == DialectSQLite {
		// One writer at a time; the pass transaction owns the only connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrapf(err, "ping %s database", opts.Dialect)
	}

	return New(db, opts.Dialect), nil
}

func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WithinPass commits fn's writes together. Any error from fn, or a cancelled
// context, rolls the pass back.
func (s *Store) WithinPass(ctx context.Context, pass string, fn func(ctx context.Context, w entity.Writer) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrapf(err, "begin tx for pass %s", pass)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &txWriter{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit tx for pass %s", pass)
	}
	return nil
}

// SQLitePath strips a file: prefix and URI parameters from a sqlite DSN.
func SQLitePath(dsn string) string {
	path := strings.TrimPrefix(strings.TrimSpace(dsn), "file:")
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	return path
}

// SQLiteDSN turns a database file path into a modernc DSN with foreign keys enforced.
func SQLiteDSN(path string) string {
	return "file:" + SQLitePath(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
