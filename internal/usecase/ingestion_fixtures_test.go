package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/competition"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/event"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/feed"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/match"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/player"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/team"
)

// memoryGateway keeps committed rows per kind and enforces the same key and
// parent rules as the relational schema. Each pass writes into a staging copy.
type memoryGateway struct {
	mu        sync.Mutex
	rows      map[entity.Kind]map[string]entity.Record
	order     map[entity.Kind][]string
	passes    []string
	failAfter map[string]error
}

func newMemoryGateway() *memoryGateway {
	return &memoryGateway{
		rows:  make(map[entity.Kind]map[string]entity.Record),
		order: make(map[entity.Kind][]string),
	}
}

func (g *memoryGateway) WithinPass(ctx context.Context, pass string, fn func(context.Context, entity.Writer) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx := &memoryWriter{gateway: g, rows: make(map[entity.Kind]map[string]entity.Record), order: make(map[entity.Kind][]string)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := g.failAfter[pass]; err != nil {
		return err
	}

	for kind, keys := range tx.order {
		if g.rows[kind] == nil {
			g.rows[kind] = make(map[string]entity.Record)
		}
		for _, key := range keys {
			g.rows[kind][key] = tx.rows[kind][key]
			g.order[kind] = append(g.order[kind], key)
		}
	}
	g.passes = append(g.passes, pass)
	return nil
}

func (g *memoryGateway) count(kind entity.Kind) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rows[kind])
}

func (g *memoryGateway) get(kind entity.Kind, key string) (entity.Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.rows[kind][key]
	return rec, ok
}

func (g *memoryGateway) keys(kind entity.Kind) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.order[kind]...)
}

type memoryWriter struct {
	gateway *memoryGateway
	rows    map[entity.Kind]map[string]entity.Record
	order   map[entity.Kind][]string
}

func (w *memoryWriter) Insert(_ context.Context, rec entity.Record) error {
	key, parents := identity(rec)
	if w.has(rec.Kind(), key) {
		return fmt.Errorf("%s %s: %w", rec.Kind(), key, entity.ErrDuplicateKey)
	}
	for _, parent := range parents {
		if !w.has(parent.kind, parent.key) {
			return fmt.Errorf("%s %s -> %s %s: %w", rec.Kind(), key, parent.kind, parent.key, entity.ErrMissingParent)
		}
	}
	if w.rows[rec.Kind()] == nil {
		w.rows[rec.Kind()] = make(map[string]entity.Record)
	}
	w.rows[rec.Kind()][key] = rec
	w.order[rec.Kind()] = append(w.order[rec.Kind()], key)
	return nil
}

func (w *memoryWriter) InsertIgnoreConflict(ctx context.Context, rec entity.Record) (bool, error) {
	key, _ := identity(rec)
	if w.has(rec.Kind(), key) {
		return false, nil
	}
	if err := w.Insert(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (w *memoryWriter) has(kind entity.Kind, key string) bool {
	if _, ok := w.rows[kind][key]; ok {
		return true
	}
	_, ok := w.gateway.rows[kind][key]
	return ok
}

type parentRef struct {
	kind entity.Kind
	key  string
}

func identity(rec entity.Record) (string, []parentRef) {
	switch r := rec.(type) {
	case competition.Competition:
		return fmt.Sprint(r.ID), nil
	case competition.Season:
		return r.Key().String(), []parentRef{{entity.KindCompetition, fmt.Sprint(r.CompetitionID)}}
	case match.Match:
		return fmt.Sprint(r.ID), []parentRef{{entity.KindSeason, competition.SeasonKey{SeasonID: r.SeasonID, CompetitionID: r.CompetitionID}.String()}}
	case team.Team:
		return fmt.Sprint(r.ID), nil
	case player.Player:
		return fmt.Sprint(r.ID), []parentRef{{entity.KindTeam, fmt.Sprint(r.TeamID)}}
	case event.Event:
		parents := []parentRef{{entity.KindMatch, fmt.Sprint(r.MatchID)}}
		if r.PlayerID != nil {
			parents = append(parents, parentRef{entity.KindPlayer, fmt.Sprint(*r.PlayerID)})
		}
		return r.ID, parents
	case event.Pass:
		parents := []parentRef{{entity.KindEvent, r.EventID}}
		if r.RecipientPlayerID != nil {
			parents = append(parents, parentRef{entity.KindPlayer, fmt.Sprint(*r.RecipientPlayerID)})
		}
		return r.EventID, parents
	case event.Detail:
		return r.OwnerID(), []parentRef{{entity.KindEvent, r.OwnerID()}}
	default:
		panic(fmt.Sprintf("unexpected record %T", rec))
	}
}

// stubSource serves an in-memory feed tree. Paths mirror the on-disk layout.
type stubSource struct {
	competitions []feed.Competition
	matches      map[string][]feed.Match
	lineups      map[int64][]feed.Lineup
	events       map[int64][]feed.Event
	broken       map[string]error
}

func newStubSource() *stubSource {
	return &stubSource{
		matches: make(map[string][]feed.Match),
		lineups: make(map[int64][]feed.Lineup),
		events:  make(map[int64][]feed.Event),
		broken:  make(map[string]error),
	}
}

func (s *stubSource) CompetitionsPath() string { return "competitions.json" }

func (s *stubSource) ReadCompetitions(context.Context) ([]feed.Competition, error) {
	if err := s.broken[s.CompetitionsPath()]; err != nil {
		return nil, err
	}
	return s.competitions, nil
}

func (s *stubSource) SeasonFiles(context.Context) ([]feed.SeasonFile, error) {
	paths := make([]string, 0, len(s.matches))
	for path := range s.matches {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]feed.SeasonFile, 0, len(paths))
	for _, path := range paths {
		comp, season := splitSeasonPath(path)
		out = append(out, feed.SeasonFile{Competition: comp, Season: season, Path: path})
	}
	return out, nil
}

func (s *stubSource) ReadMatches(_ context.Context, path string) ([]feed.Match, error) {
	if err := s.broken[path]; err != nil {
		return nil, err
	}
	return s.matches[path], nil
}

func (s *stubSource) LineupFiles(context.Context) ([]feed.MatchFile, error) {
	return matchFiles("lineups", s.lineups), nil
}

func (s *stubSource) ReadLineups(_ context.Context, path string) ([]feed.Lineup, error) {
	if err := s.broken[path]; err != nil {
		return nil, err
	}
	var id int64
	fmt.Sscanf(path, "lineups/%d.json", &id)
	return s.lineups[id], nil
}

func (s *stubSource) EventFiles(context.Context) ([]feed.MatchFile, error) {
	return matchFiles("events", s.events), nil
}

func (s *stubSource) ReadEvents(_ context.Context, path string) ([]feed.Event, error) {
	if err := s.broken[path]; err != nil {
		return nil, err
	}
	var id int64
	fmt.Sscanf(path, "events/%d.json", &id)
	return s.events[id], nil
}

func matchFiles[T any](dir string, byMatch map[int64][]T) []feed.MatchFile {
	ids := make([]int64, 0, len(byMatch))
	for id := range byMatch {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]feed.MatchFile, 0, len(ids))
	for _, id := range ids {
		out = append(out, feed.MatchFile{MatchID: id, Path: fmt.Sprintf("%s/%d.json", dir, id)})
	}
	return out
}

func splitSeasonPath(path string) (string, string) {
	rest := strings.TrimSuffix(strings.TrimPrefix(path, "matches/"), ".json")
	comp, season, _ := strings.Cut(rest, "/")
	return comp, season
}

func (s *stubSource) addCompetition(compID, seasonID int64, name, seasonName string) {
	s.competitions = append(s.competitions, feed.Competition{
		CompetitionID:     ptr(compID),
		SeasonID:          ptr(seasonID),
		CountryName:       "Spain",
		CompetitionName:   name,
		CompetitionGender: "male",
		SeasonName:        seasonName,
	})
}

func (s *stubSource) addMatch(compID, seasonID, matchID int64, home, away team.Team) {
	path := fmt.Sprintf("matches/%d/%d.json", compID, seasonID)
	s.matches[path] = append(s.matches[path], feed.Match{
		MatchID:     ptr(matchID),
		Competition: &feed.MatchCompetition{CompetitionID: ptr(compID)},
		Season:      &feed.MatchSeason{SeasonID: ptr(seasonID)},
		HomeTeam:    &feed.HomeTeam{HomeTeamID: ptr(home.ID), HomeTeamName: home.Name},
		AwayTeam:    &feed.AwayTeam{AwayTeamID: ptr(away.ID), AwayTeamName: away.Name},
	})
}

func (s *stubSource) addLineup(matchID, teamID int64, players ...player.Player) {
	lineup := feed.Lineup{TeamID: ptr(teamID)}
	for _, p := range players {
		lineup.Players = append(lineup.Players, feed.LineupPlayer{PlayerID: ptr(p.ID), PlayerName: p.Name})
	}
	s.lineups[matchID] = append(s.lineups[matchID], lineup)
}

func (s *stubSource) addEvents(matchID int64, events ...feed.Event) {
	s.events[matchID] = append(s.events[matchID], events...)
}

func ptr[T any](v T) *T {
	return &v
}

func rawEvent(id string, code event.TypeCode, playerID int64) feed.Event {
	out := feed.Event{ID: id, Type: &feed.Ref{ID: ptr(int64(code))}}
	if playerID != 0 {
		out.Player = &feed.Ref{ID: ptr(playerID)}
	}
	return out
}

func rawShot(id string, playerID int64, xg string) feed.Event {
	out := rawEvent(id, event.TypeShot, playerID)
	number := json.Number(xg)
	out.Shot = &feed.Shot{StatsbombXG: &number}
	return out
}

func rawPass(id string, playerID int64, recipient int64) feed.Event {
	out := rawEvent(id, event.TypePass, playerID)
	out.Pass = &feed.Pass{}
	if recipient != 0 {
		out.Pass.Recipient = &feed.Ref{ID: ptr(recipient)}
	}
	return out
}

// laLigaFeed is one whitelisted match with both lineups and a handful of events,
// plus an out-of-scope season sharing a team with it.
func laLigaFeed() *stubSource {
	src := newStubSource()
	src.addCompetition(2, 44, "Premier League", "2003/2004")
	src.addCompetition(11, 90, "La Liga", "2020/2021")
	src.addCompetition(11, 1, "La Liga", "2017/2018")

	barcelona := team.Team{ID: 217, Name: "Barcelona"}
	madrid := team.Team{ID: 220, Name: "Real Madrid"}
	sevilla := team.Team{ID: 221, Name: "Sevilla"}
	src.addMatch(11, 90, 3773386, barcelona, madrid)
	src.addMatch(11, 1, 9000, barcelona, sevilla)

	messi := player.Player{ID: 5503, Name: "Lionel Andrés Messi Cuccittini"}
	pedri := player.Player{ID: 30486, Name: "Pedro González López"}
	benzema := player.Player{ID: 19677, Name: "Karim Benzema"}
	src.addLineup(3773386, 217, messi, pedri)
	src.addLineup(3773386, 220, benzema)
	src.addLineup(9000, 217, messi)

	src.addEvents(3773386,
		rawEvent("e-start", 35, 0),
		rawPass("e-pass", 30486, 5503),
		rawShot("e-shot", 5503, "0.0781"),
		rawEvent("e-past", event.TypeDribbledPast, 19677),
	)
	src.addEvents(9000, rawShot("e-other", 5503, "0.5"))
	return src
}
