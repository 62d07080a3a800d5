package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

const (
	PassCompetitions = "competitions"
	PassSeasons      = "seasons"
	PassMatches      = "matches"
	PassLineups      = "lineups"
	PassEvents       = "events"
)

type passFunc func(ctx context.Context, state *runState, w entity.Writer, report *PassReport) error

type passSpec struct {
	name      string
	dependsOn []string
	run       passFunc
}

// schedulePasses orders passes so every pass follows the passes it depends on.
// Ties keep declaration order, so the schedule is deterministic.
func schedulePasses(specs []passSpec) ([]passSpec, error) {
	index := make(map[string]int, len(specs))
	for i, spec := range specs {
		if _, dup := index[spec.name]; dup {
			return nil, fmt.Errorf("%w: pass %q declared twice", ErrInvalidInput, spec.name)
		}
		index[spec.name] = i
	}

	indegree := make([]int, len(specs))
	dependents := make([][]int, len(specs))
	for i, spec := range specs {
		for _, dep := range spec.dependsOn {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("%w: pass %q depends on unknown pass %q", ErrInvalidInput, spec.name, dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	out := make([]passSpec, 0, len(specs))
	done := make([]bool, len(specs))
	for len(out) < len(specs) {
		next := -1
		for i := range specs {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: pass dependencies contain a cycle", ErrInvalidInput)
		}
		done[next] = true
		out = append(out, specs[next])
		for _, dependent := range dependents[next] {
			indegree[dependent]--
		}
	}

	return out, nil
}
