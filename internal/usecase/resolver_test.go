package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/feed"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/team"
)

func TestResolveMatch_HomeTeamFirst(t *testing.T) {
	t.Parallel()

	src := newStubSource()
	src.addMatch(2, 44, 19789, team.Team{ID: 1, Name: "Arsenal"}, team.Team{ID: 46, Name: "Leicester City"})

	m, teams, err := resolveMatch(0, src.matches["matches/2/44.json"][0])
	if err != nil {
		t.Fatalf("resolveMatch error: %v", err)
	}
	if m.ID != 19789 || m.CompetitionID != 2 || m.SeasonID != 44 {
		t.Fatalf("unexpected match: %+v", m)
	}
	if teams[0].ID != 1 || teams[1].ID != 46 {
		t.Fatalf("expected home team first, got=%+v", teams)
	}
}

func TestResolveMatch_MissingAwayTeam(t *testing.T) {
	t.Parallel()

	raw := feed.Match{
		MatchID:     ptr(int64(19789)),
		Competition: &feed.MatchCompetition{CompetitionID: ptr(int64(2))},
		Season:      &feed.MatchSeason{SeasonID: ptr(int64(44))},
		HomeTeam:    &feed.HomeTeam{HomeTeamID: ptr(int64(1)), HomeTeamName: "Arsenal"},
	}

	_, _, err := resolveMatch(3, raw)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got=%v", err)
	}
	if !strings.Contains(err.Error(), "match 19789") || !strings.Contains(err.Error(), "away_team") {
		t.Fatalf("expected match id and field in error, got=%q", err.Error())
	}
}

func TestResolveCompetition_MissingSeasonID(t *testing.T) {
	t.Parallel()

	raw := feed.Competition{
		CompetitionID:     ptr(int64(11)),
		CountryName:       "Spain",
		CompetitionName:   "La Liga",
		CompetitionGender: "male",
		SeasonName:        "2020/2021",
	}

	_, _, err := resolveCompetition(7, raw)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got=%v", err)
	}
	if !strings.Contains(err.Error(), "competitions[7]") || !strings.Contains(err.Error(), "season_id") {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestResolveLineup_TagsPlayersWithTeam(t *testing.T) {
	t.Parallel()

	raw := feed.Lineup{
		TeamID: ptr(int64(217)),
		Players: []feed.LineupPlayer{
			{PlayerID: ptr(int64(5503)), PlayerName: "Lionel Andrés Messi Cuccittini"},
			{PlayerID: ptr(int64(30486)), PlayerName: "Pedro González López"},
		},
	}

	teamID, players, err := resolveLineup(3773386, 0, raw)
	if err != nil {
		t.Fatalf("resolveLineup error: %v", err)
	}
	if teamID != 217 || len(players) != 2 {
		t.Fatalf("unexpected lineup: team=%d players=%d", teamID, len(players))
	}
	for _, p := range players {
		if p.TeamID != 217 {
			t.Fatalf("player %d not tagged with team: %+v", p.ID, p)
		}
	}
}

func TestResolveLineup_PlayerWithoutID(t *testing.T) {
	t.Parallel()

	raw := feed.Lineup{
		TeamID:  ptr(int64(217)),
		Players: []feed.LineupPlayer{{PlayerName: "Unknown"}},
	}

	if _, _, err := resolveLineup(3773386, 1, raw); !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got=%v", err)
	}
}

func TestResolveEvent_MatchIDFromFile(t *testing.T) {
	t.Parallel()

	ev, err := resolveEvent(3773386, 0, rawEvent("e1", 30, 5503))
	if err != nil {
		t.Fatalf("resolveEvent error: %v", err)
	}
	if ev.MatchID != 3773386 || ev.TypeCode != 30 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.PlayerID == nil || *ev.PlayerID != 5503 {
		t.Fatalf("expected player 5503, got=%v", ev.PlayerID)
	}

	noPlayer, err := resolveEvent(3773386, 1, rawEvent("e2", 35, 0))
	if err != nil {
		t.Fatalf("resolveEvent error: %v", err)
	}
	if noPlayer.PlayerID != nil {
		t.Fatalf("expected no player, got=%d", *noPlayer.PlayerID)
	}
}

func TestResolveEvent_MissingType(t *testing.T) {
	t.Parallel()

	if _, err := resolveEvent(1, 0, feed.Event{ID: "e1"}); !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got=%v", err)
	}
}
