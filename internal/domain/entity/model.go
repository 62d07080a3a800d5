package entity

import "errors"

// Kind names one persisted entity type. Values double as log and report keys.
type Kind string

const (
	KindCompetition  Kind = "competition"
	KindSeason       Kind = "season"
	KindMatch        Kind = "match"
	KindTeam         Kind = "team"
	KindPlayer       Kind = "player"
	KindEvent        Kind = "event"
	KindShot         Kind = "shot"
	KindPass         Kind = "pass"
	KindDribble      Kind = "dribble"
	KindDribbledPast Kind = "dribbled_past"
)

// Kinds lists every entity kind in dependency order.
func Kinds() []Kind {
	return []Kind{
		KindCompetition,
		KindSeason,
		KindMatch,
		KindTeam,
		KindPlayer,
		KindEvent,
		KindShot,
		KindPass,
		KindDribble,
		KindDribbledPast,
	}
}

// DedupEligible reports whether duplicate writes of the kind are benign no-ops.
func (k Kind) DedupEligible() bool {
	switch k {
	case KindCompetition, KindSeason, KindTeam, KindPlayer:
		return true
	default:
		return false
	}
}

// Record is a normalized row ready for the persistence gateway.
type Record interface {
	Kind() Kind
}

var (
	// ErrDuplicateKey is reported by a Writer when a primary or unique key already exists.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrMissingParent is reported by a Writer when a foreign key target does not exist.
	ErrMissingParent = errors.New("missing parent row")
	// ErrUnsupportedKind is reported for records the gateway has no table for.
	ErrUnsupportedKind = errors.New("unsupported entity kind")
	// ErrInvalidRecord is reported when a record fails its own Validate check.
	ErrInvalidRecord = errors.New("invalid record")
)
