package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/feed"
)

const (
	competitionsFile = "competitions.json"
	matchesDir       = "matches"
	lineupsDir       = "lineups"
	eventsDir        = "events"
	jsonExt          = ".json"
)

// Source reads the open-data directory layout:
//
//	<root>/competitions.json
//	<root>/matches/<competition>/<season>.json
//	<root>/lineups/<match>.json
//	<root>/events/<match>.json
//
// Listings are lexical. A missing matches, lineups or events directory lists as empty.
type Source struct {
	root string
}

func New(root string) *Source {
	return &Source{root: filepath.Clean(root)}
}

func (s *Source) CompetitionsPath() string {
	return filepath.Join(s.root, competitionsFile)
}

func (s *Source) ReadCompetitions(ctx context.Context) ([]feed.Competition, error) {
	var out []feed.Competition
	if err := readJSON(ctx, s.CompetitionsPath(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) SeasonFiles(ctx context.Context) ([]feed.SeasonFile, error) {
	compDirs, err := readDir(filepath.Join(s.root, matchesDir))
	if err != nil {
		return nil, err
	}

	var out []feed.SeasonFile
	for _, compDir := range compDirs {
		if !compDir.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(s.root, matchesDir, compDir.Name())
		entries, err := readDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			stem, ok := jsonStem(entry)
			if !ok {
				continue
			}
			out = append(out, feed.SeasonFile{
				Competition: compDir.Name(),
				Season:      stem,
				Path:        filepath.Join(dir, entry.Name()),
			})
		}
	}
	return out, nil
}

func (s *Source) ReadMatches(ctx context.Context, path string) ([]feed.Match, error) {
	var out []feed.Match
	if err := readJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) LineupFiles(ctx context.Context) ([]feed.MatchFile, error) {
	return listMatchFiles(ctx, filepath.Join(s.root, lineupsDir))
}

func (s *Source) ReadLineups(ctx context.Context, path string) ([]feed.Lineup, error) {
	var out []feed.Lineup
	if err := readJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) EventFiles(ctx context.Context) ([]feed.MatchFile, error) {
	return listMatchFiles(ctx, filepath.Join(s.root, eventsDir))
}

func (s *Source) ReadEvents(ctx context.Context, path string) ([]feed.Event, error) {
	var out []feed.Event
	if err := readJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// listMatchFiles lists <dir>/<match id>.json files. The match id is taken
// from the file name; a non-numeric name is malformed.
func listMatchFiles(ctx context.Context, dir string) ([]feed.MatchFile, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]feed.MatchFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stem, ok := jsonStem(entry)
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		matchID, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: file name is not a match id", feed.ErrMalformed, path)
		}
		out = append(out, feed.MatchFile{MatchID: matchID, Path: path})
	}
	return out, nil
}

func readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, crerr.Wrapf(err, "list %s", dir)
	}
	return entries, nil
}

func jsonStem(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), jsonExt) {
		return "", false
	}
	return strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), true
}

func readJSON(ctx context.Context, path string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return crerr.Wrapf(err, "read %s", path)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s: %w", feed.ErrMalformed, path, err)
	}
	return nil
}
