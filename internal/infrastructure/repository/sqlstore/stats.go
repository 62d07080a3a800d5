package sqlstore

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	qb "github.com/riskibarqy/matchfeed-loader/internal/platform/querybuilder"
)

// TableCounts returns the row count of every entity table.
func (s *Store) TableCounts(ctx context.Context) (map[entity.Kind]int64, error) {
	out := make(map[entity.Kind]int64, len(tables))
	for _, kind := range entity.Kinds() {
		query, args, err := qb.Select("COUNT(*)").From(tables[kind].name).ToSQL()
		if err != nil {
			return nil, crerr.Wrapf(err, "build count query for %s", kind)
		}

		var n int64
		if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
			return nil, crerr.Wrapf(err, "count %s", tables[kind].name)
		}
		out[kind] = n
	}
	return out, nil
}

type SeasonMatchCount struct {
	CompetitionID int64 `db:"competition_id"`
	SeasonID      int64 `db:"season_id"`
	Matches       int64 `db:"matches"`
}

// SeasonMatchCounts lists loaded matches per season, optionally restricted to competitions.
func (s *Store) SeasonMatchCounts(ctx context.Context, competitionIDs []int64) ([]SeasonMatchCount, error) {
	builder := qb.Select("competition_id", "season_id", "COUNT(*) AS matches").
		From("matches").
		GroupBy("competition_id", "season_id").
		OrderBy("competition_id", "season_id")
	if len(competitionIDs) > 0 {
		values := make([]any, 0, len(competitionIDs))
		for _, id := range competitionIDs {
			values = append(values, id)
		}
		builder = builder.Where(qb.In("competition_id", values))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build season match count query")
	}

	var out []SeasonMatchCount
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, crerr.Wrap(err, "count matches per season")
	}
	return out, nil
}

type EventTypeCount struct {
	EventTypeID int64 `db:"event_type_id"`
	Events      int64 `db:"events"`
}

// EventTypeCounts breaks a match's event stream down by type code.
func (s *Store) EventTypeCounts(ctx context.Context, matchID int64) ([]EventTypeCount, error) {
	query, args, err := qb.Select("event_type_id", "COUNT(*) AS events").
		From("events").
		Where(qb.Eq("match_id", matchID)).
		GroupBy("event_type_id").
		OrderBy("event_type_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build event type count query")
	}

	var out []EventTypeCount
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, crerr.Wrapf(err, "count events of match %d", matchID)
	}
	return out, nil
}
