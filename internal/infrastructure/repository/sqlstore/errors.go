package sqlstore

import (
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// classifyError wraps a driver error and marks key and foreign key violations
// with the entity sentinels so callers can branch without knowing the driver.
func classifyError(err error, format string, args ...any) error {
	wrapped := crerr.Wrapf(err, format, args...)
	switch {
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %w", entity.ErrDuplicateKey, wrapped)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", entity.ErrMissingParent, wrapped)
	default:
		return wrapped
	}
}

func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}
