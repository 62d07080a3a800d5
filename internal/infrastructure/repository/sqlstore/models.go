package sqlstore

import (
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/competition"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/event"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/match"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/player"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/team"
)

type table struct {
	name string
	key  []string
}

var tables = map[entity.Kind]table{
	entity.KindCompetition:  {name: "competitions", key: []string{"competition_id"}},
	entity.KindSeason:       {name: "seasons", key: []string{"season_id", "competition_id"}},
	entity.KindMatch:        {name: "matches", key: []string{"match_id"}},
	entity.KindTeam:         {name: "teams", key: []string{"team_id"}},
	entity.KindPlayer:       {name: "players", key: []string{"player_id"}},
	entity.KindEvent:        {name: "events", key: []string{"event_id"}},
	entity.KindShot:         {name: "shots", key: []string{"event_id"}},
	entity.KindPass:         {name: "passes", key: []string{"event_id"}},
	entity.KindDribble:      {name: "dribbles", key: []string{"event_id"}},
	entity.KindDribbledPast: {name: "dribble_past", key: []string{"event_id"}},
}

type competitionInsertModel struct {
	CompetitionID            int64  `db:"competition_id"`
	CountryName              string `db:"country_name"`
	CompetitionName          string `db:"competition_name"`
	CompetitionGender        string `db:"competition_gender"`
	CompetitionYouth         bool   `db:"competition_youth"`
	CompetitionInternational bool   `db:"competition_international"`
}

type seasonInsertModel struct {
	SeasonID      int64  `db:"season_id"`
	CompetitionID int64  `db:"competition_id"`
	SeasonName    string `db:"season_name"`
}

type matchInsertModel struct {
	MatchID       int64 `db:"match_id"`
	SeasonID      int64 `db:"season_id"`
	CompetitionID int64 `db:"competition_id"`
}

type teamInsertModel struct {
	TeamID   int64  `db:"team_id"`
	TeamName string `db:"team_name"`
}

type playerInsertModel struct {
	PlayerID   int64  `db:"player_id"`
	PlayerName string `db:"player_name"`
	TeamID     int64  `db:"team_id"`
}

type eventInsertModel struct {
	EventID     string `db:"event_id"`
	EventTypeID int64  `db:"event_type_id"`
	MatchID     int64  `db:"match_id"`
	PlayerID    *int64 `db:"player_id"`
}

type shotInsertModel struct {
	EventID string `db:"event_id"`
	// Bound as text so the decimal literal reaches the NUMERIC column unchanged.
	StatsbombXG string `db:"statsbomb_xg"`
	FirstTime   bool   `db:"first_time"`
}

type passInsertModel struct {
	EventID           string `db:"event_id"`
	RecipientPlayerID *int64 `db:"recipient_player_id"`
	Succeeded         bool   `db:"succeeded"`
	ThroughBall       bool   `db:"through_ball"`
}

type dribbleInsertModel struct {
	EventID   string `db:"event_id"`
	Nutmeg    bool   `db:"nutmeg"`
	OutcomeID int64  `db:"outcome_id"`
}

type dribblePastInsertModel struct {
	EventID string `db:"event_id"`
}

func rowFor(rec entity.Record) (table, any, error) {
	tbl, ok := tables[rec.Kind()]
	if !ok {
		return table{}, nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedKind, rec.Kind())
	}

	switch r := rec.(type) {
	case competition.Competition:
		return tbl, competitionInsertModel{
			CompetitionID:            r.ID,
			CountryName:              r.CountryName,
			CompetitionName:          r.Name,
			CompetitionGender:        r.Gender,
			CompetitionYouth:         r.Youth,
			CompetitionInternational: r.International,
		}, nil
	case competition.Season:
		return tbl, seasonInsertModel{SeasonID: r.ID, CompetitionID: r.CompetitionID, SeasonName: r.Name}, nil
	case match.Match:
		return tbl, matchInsertModel{MatchID: r.ID, SeasonID: r.SeasonID, CompetitionID: r.CompetitionID}, nil
	case team.Team:
		return tbl, teamInsertModel{TeamID: r.ID, TeamName: r.Name}, nil
	case player.Player:
		return tbl, playerInsertModel{PlayerID: r.ID, PlayerName: r.Name, TeamID: r.TeamID}, nil
	case event.Event:
		return tbl, eventInsertModel{EventID: r.ID, EventTypeID: int64(r.TypeCode), MatchID: r.MatchID, PlayerID: r.PlayerID}, nil
	case event.Shot:
		return tbl, shotInsertModel{EventID: r.EventID, StatsbombXG: r.ExpectedGoals, FirstTime: r.FirstTime}, nil
	case event.Pass:
		return tbl, passInsertModel{
			EventID:           r.EventID,
			RecipientPlayerID: r.RecipientPlayerID,
			Succeeded:         r.Succeeded,
			ThroughBall:       r.ThroughBall,
		}, nil
	case event.Dribble:
		return tbl, dribbleInsertModel{EventID: r.EventID, Nutmeg: r.Nutmeg, OutcomeID: r.OutcomeID}, nil
	case event.DribbledPast:
		return tbl, dribblePastInsertModel{EventID: r.EventID}, nil
	default:
		return table{}, nil, fmt.Errorf("%w: %T", entity.ErrUnsupportedKind, rec)
	}
}
