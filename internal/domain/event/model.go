package event

import "github.com/riskibarqy/matchfeed-loader/internal/domain/entity"

// TypeCode is the feed's event type discriminant. Values are fixed by the data provider.
type TypeCode int64

const (
	TypeDribble      TypeCode = 14
	TypeShot         TypeCode = 16
	TypePass         TypeCode = 30
	TypeDribbledPast TypeCode = 39
)

// Event is the base row every typed detail hangs off.
type Event struct {
	ID       string
	TypeCode TypeCode
	MatchID  int64
	PlayerID *int64
}

func (Event) Kind() entity.Kind { return entity.KindEvent }

// Detail is one of Shot, Pass, Dribble or DribbledPast.
type Detail interface {
	entity.Record
	OwnerID() string
	detail()
}

type Shot struct {
	EventID string
	// ExpectedGoals is kept as the decimal literal found in the feed.
	ExpectedGoals string
	FirstTime     bool
}

func (Shot) Kind() entity.Kind { return entity.KindShot }
func (s Shot) OwnerID() string { return s.EventID }
func (Shot) detail() {}

type Pass struct {
	EventID           string
	RecipientPlayerID *int64
	Succeeded         bool
	ThroughBall       bool
}

func (Pass) Kind() entity.Kind { return entity.KindPass }
func (p Pass) OwnerID() string { return p.EventID }
func (Pass) detail() {}

type Dribble struct {
	EventID   string
	Nutmeg    bool
	OutcomeID int64
}

func (Dribble) Kind() entity.Kind { return entity.KindDribble }
func (d Dribble) OwnerID() string { return d.EventID }
func (Dribble) detail() {}

type DribbledPast struct {
	EventID string
}

func (DribbledPast) Kind() entity.Kind { return entity.KindDribbledPast }
func (d DribbledPast) OwnerID() string { return d.EventID }
func (DribbledPast) detail() {}
