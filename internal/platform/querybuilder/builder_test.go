package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("competition_id", "season_id", "COUNT(*)").
		From("matches").
		Where(Eq("competition_id", int64(11)), In("season_id", []any{int64(90), int64(1)})).
		GroupBy("competition_id", "season_id").
		OrderBy("competition_id", "season_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT competition_id, season_id, COUNT(*) FROM matches WHERE competition_id = ? AND season_id IN (?, ?) GROUP BY competition_id, season_id ORDER BY competition_id, season_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(11) || args[2] != int64(1) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("COUNT(*)").From("events").Where(In("match_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT COUNT(*) FROM events WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("team_id", "team_name").
		Values(int64(217), "Barcelona").
		OnConflictDoNothing("team_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (team_id, team_name) VALUES (?, ?) ON CONFLICT (team_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(217) || args[1] != "Barcelona" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowArity(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("team_id", "team_name").Values(int64(1)).ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestInsertModel(t *testing.T) {
	type seasonRow struct {
		SeasonID      int64  `db:"season_id"`
		CompetitionID int64  `db:"competition_id"`
		Name          string `db:"season_name"`
		note          string
		Ignored       string `db:"-"`
	}

	query, args, err := InsertModel("seasons", seasonRow{SeasonID: 90, CompetitionID: 11, Name: "2020/2021", note: "x"}, "season_id", "competition_id")
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}

	wantQuery := "INSERT INTO seasons (season_id, competition_id, season_name) VALUES (?, ?, ?) ON CONFLICT (season_id, competition_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "2020/2021" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("seasons", (*seasonRow)(nil)); err == nil {
		t.Fatal("expected nil model error")
	}
}
