package scope

import (
	"maps"
	"slices"
	"strings"
)

// Whitelist restricts ingestion to named competition and season directory tokens.
// A pair is in scope only when both tokens are listed; there are no wildcards.
type Whitelist struct {
	competitions map[string]struct{}
	seasons      map[string]struct{}
}

func NewWhitelist(competitions, seasons []string) Whitelist {
	return Whitelist{
		competitions: toSet(competitions),
		seasons:      toSet(seasons),
	}
}

func (w Whitelist) Allows(competition, season string) bool {
	if _, ok := w.competitions[competition]; !ok {
		return false
	}
	_, ok := w.seasons[season]
	return ok
}

func (w Whitelist) Competitions() []string {
	return keys(w.competitions)
}

func (w Whitelist) Seasons() []string {
	return keys(w.seasons)
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out[item] = struct{}{}
	}
	return out
}

func keys(set map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(set))
}
