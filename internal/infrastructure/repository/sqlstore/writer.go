package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	qb "github.com/riskibarqy/matchfeed-loader/internal/platform/querybuilder"
)

type validatable interface {
	Validate() error
}

type txWriter struct {
	tx *sqlx.Tx
}

func (w *txWriter) Insert(ctx context.Context, rec entity.Record) error {
	_, err := w.exec(ctx, rec, false)
	return err
}

// InsertIgnoreConflict reports false when the row's key already existed.
func (w *txWriter) InsertIgnoreConflict(ctx context.Context, rec entity.Record) (bool, error) {
	res, err := w.exec(ctx, rec, true)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, crerr.Wrapf(err, "rows affected for %s", rec.Kind())
	}
	return affected > 0, nil
}

func (w *txWriter) exec(ctx context.Context, rec entity.Record, ignoreConflict bool) (sql.Result, error) {
	if v, ok := rec.(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrInvalidRecord, err)
		}
	}

	tbl, row, err := rowFor(rec)
	if err != nil {
		return nil, err
	}

	var conflict []string
	if ignoreConflict {
		if !rec.Kind().DedupEligible() {
			return nil, fmt.Errorf("%w: %s rows cannot ignore conflicts", entity.ErrUnsupportedKind, rec.Kind())
		}
		conflict = tbl.key
	}

	query, args, err := qb.InsertModel(tbl.name, row, conflict...)
	if err != nil {
		return nil, crerr.Wrapf(err, "build insert into %s", tbl.name)
	}

	res, err := w.tx.ExecContext(ctx, w.tx.Rebind(query), args...)
	if err != nil {
		return nil, classifyError(err, "insert into %s", tbl.name)
	}
	return res, nil
}
