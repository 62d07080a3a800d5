package cache

import "github.com/riskibarqy/matchfeed-loader/internal/domain/entity"

// Observation is the outcome of offering an identifier to the EntityCache.
type Observation int

const (
	ObservationNew Observation = iota + 1
	ObservationDuplicate
)

func (o Observation) String() string {
	switch o {
	case ObservationNew:
		return "new"
	case ObservationDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Key identifies a deduplicated entity. Parent is only set for composite keys (seasons).
type Key struct {
	Kind   entity.Kind
	ID     int64
	Parent int64
}

func KeyOf(kind entity.Kind, id int64) Key {
	return Key{Kind: kind, ID: id}
}

func SeasonKeyOf(seasonID, competitionID int64) Key {
	return Key{Kind: entity.KindSeason, ID: seasonID, Parent: competitionID}
}

// EntityCache remembers which entities were already written during one run.
// It is an optimization only; the gateway's conflict-ignore insert stays the backstop.
type EntityCache struct {
	seen *SeenSet[Key]
}

func NewEntityCache() *EntityCache {
	return &EntityCache{seen: NewSeenSet[Key]()}
}

func (c *EntityCache) Observe(key Key) Observation {
	if c.seen.Add(key) {
		return ObservationNew
	}
	return ObservationDuplicate
}

func (c *EntityCache) Seen(key Key) bool {
	return c.seen.Contains(key)
}

func (c *EntityCache) Len() int {
	return c.seen.Len()
}
