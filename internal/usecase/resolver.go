package usecase

import (
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/competition"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/event"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/feed"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/match"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/player"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/team"
)

// The resolver projects the parent rows a raw record implies. It only copies
// identifiers present in the source; a missing one is a structural error.

func resolveCompetition(idx int, raw feed.Competition) (competition.Competition, competition.Season, error) {
	label := fmt.Sprintf("competitions[%d]", idx)
	if err := requireFields(label, raw); err != nil {
		return competition.Competition{}, competition.Season{}, err
	}

	comp := competition.Competition{
		ID:            *raw.CompetitionID,
		CountryName:   raw.CountryName,
		Name:          raw.CompetitionName,
		Gender:        raw.CompetitionGender,
		Youth:         raw.CompetitionYouth,
		International: raw.CompetitionInternational,
	}
	season := competition.Season{
		ID:            *raw.SeasonID,
		CompetitionID: *raw.CompetitionID,
		Name:          raw.SeasonName,
	}
	return comp, season, nil
}

// resolveMatch returns the match and its implied teams, home first.
func resolveMatch(idx int, raw feed.Match) (match.Match, [2]team.Team, error) {
	label := fmt.Sprintf("matches[%d]", idx)
	if raw.MatchID != nil {
		label = fmt.Sprintf("match %d", *raw.MatchID)
	}
	if err := requireFields(label, raw); err != nil {
		return match.Match{}, [2]team.Team{}, err
	}

	m := match.Match{
		ID:            *raw.MatchID,
		CompetitionID: *raw.Competition.CompetitionID,
		SeasonID:      *raw.Season.SeasonID,
	}
	teams := [2]team.Team{
		{ID: *raw.HomeTeam.HomeTeamID, Name: raw.HomeTeam.HomeTeamName},
		{ID: *raw.AwayTeam.AwayTeamID, Name: raw.AwayTeam.AwayTeamName},
	}
	return m, teams, nil
}

// resolveLineup returns the lineup's players tagged with the lineup's team.
func resolveLineup(matchID int64, idx int, raw feed.Lineup) (int64, []player.Player, error) {
	label := fmt.Sprintf("match %d lineup[%d]", matchID, idx)
	if err := requireFields(label, raw); err != nil {
		return 0, nil, err
	}

	teamID := *raw.TeamID
	out := make([]player.Player, 0, len(raw.Players))
	for _, item := range raw.Players {
		out = append(out, player.Player{
			ID:     *item.PlayerID,
			Name:   item.PlayerName,
			TeamID: teamID,
		})
	}
	return teamID, out, nil
}

// resolveEvent builds the base event row. The match id comes from the events file name.
func resolveEvent(matchID int64, idx int, raw feed.Event) (event.Event, error) {
	label := fmt.Sprintf("match %d events[%d]", matchID, idx)
	if raw.ID != "" {
		label = fmt.Sprintf("event %s", raw.ID)
	}
	if err := requireFields(label, raw); err != nil {
		return event.Event{}, err
	}

	out := event.Event{
		ID:       raw.ID,
		TypeCode: event.TypeCode(*raw.Type.ID),
		MatchID:  matchID,
	}
	if raw.Player != nil {
		playerID := *raw.Player.ID
		out.PlayerID = &playerID
	}
	return out, nil
}
