package feed

import (
	"encoding/json"
	"errors"
)

// ErrMalformed marks a source file that cannot be decoded or addressed.
var ErrMalformed = errors.New("malformed feed file")

// Ref is the feed's {"id": n, "name": "..."} pair.
type Ref struct {
	ID   *int64 `json:"id" validate:"required"`
	Name string `json:"name"`
}

// Competition is one row of competitions.json; a competition repeats once per season.
type Competition struct {
	CompetitionID            *int64 `json:"competition_id" validate:"required"`
	SeasonID                 *int64 `json:"season_id" validate:"required"`
	CountryName              string `json:"country_name" validate:"required"`
	CompetitionName          string `json:"competition_name" validate:"required"`
	CompetitionGender        string `json:"competition_gender" validate:"required"`
	CompetitionYouth         bool   `json:"competition_youth"`
	CompetitionInternational bool   `json:"competition_international"`
	SeasonName               string `json:"season_name" validate:"required"`
}

type MatchCompetition struct {
	CompetitionID *int64 `json:"competition_id" validate:"required"`
}

type MatchSeason struct {
	SeasonID *int64 `json:"season_id" validate:"required"`
}

type HomeTeam struct {
	HomeTeamID   *int64 `json:"home_team_id" validate:"required"`
	HomeTeamName string `json:"home_team_name" validate:"required"`
}

type AwayTeam struct {
	AwayTeamID   *int64 `json:"away_team_id" validate:"required"`
	AwayTeamName string `json:"away_team_name" validate:"required"`
}

// Match is one row of matches/<competition>/<season>.json.
type Match struct {
	MatchID     *int64            `json:"match_id" validate:"required"`
	Competition *MatchCompetition `json:"competition" validate:"required"`
	Season      *MatchSeason      `json:"season" validate:"required"`
	HomeTeam    *HomeTeam         `json:"home_team" validate:"required"`
	AwayTeam    *AwayTeam         `json:"away_team" validate:"required"`
}

type LineupPlayer struct {
	PlayerID   *int64 `json:"player_id" validate:"required"`
	PlayerName string `json:"player_name" validate:"required"`
}

// Lineup is one team's squad sheet inside lineups/<match>.json.
type Lineup struct {
	TeamID   *int64         `json:"team_id" validate:"required"`
	TeamName string         `json:"team_name"`
	Players  []LineupPlayer `json:"lineup" validate:"dive"`
}

type Shot struct {
	StatsbombXG *json.Number `json:"statsbomb_xg" validate:"required"`
	FirstTime   *bool        `json:"first_time"`
}

// Marker is a lookup reference whose presence alone carries meaning. Unlike
// Ref it requires nothing, so {"name": "Incomplete"} and {} both decode.
type Marker struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

type Pass struct {
	Recipient   *Ref    `json:"recipient"`
	Outcome     *Marker `json:"outcome"`
	ThroughBall *bool   `json:"through_ball"`
}

type Dribble struct {
	Nutmeg  *bool `json:"nutmeg"`
	Outcome *Ref  `json:"outcome" validate:"required"`
}

// Event is one row of events/<match>.json. Only the blocks the loader persists are decoded.
type Event struct {
	ID      string   `json:"id" validate:"required"`
	Type    *Ref     `json:"type" validate:"required"`
	Player  *Ref     `json:"player"`
	Shot    *Shot    `json:"shot"`
	Pass    *Pass    `json:"pass"`
	Dribble *Dribble `json:"dribble"`
}
