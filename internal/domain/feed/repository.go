package feed

import "context"

// SeasonFile addresses matches/<competition>/<season>.json by its directory tokens.
type SeasonFile struct {
	Competition string
	Season      string
	Path        string
}

// MatchFile addresses a per-match file (lineups or events) by the match id in its name.
type MatchFile struct {
	MatchID int64
	Path    string
}

// Source lists and decodes feed files. Listings are returned in directory order.
type Source interface {
	CompetitionsPath() string
	ReadCompetitions(ctx context.Context) ([]Competition, error)
	SeasonFiles(ctx context.Context) ([]SeasonFile, error)
	ReadMatches(ctx context.Context, path string) ([]Match, error)
	LineupFiles(ctx context.Context) ([]MatchFile, error)
	ReadLineups(ctx context.Context, path string) ([]Lineup, error)
	EventFiles(ctx context.Context) ([]MatchFile, error)
	ReadEvents(ctx context.Context, path string) ([]Event, error)
}
