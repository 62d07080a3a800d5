package usecase

import (
	"time"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

// PassReport holds the counts of one committed pass.
type PassReport struct {
	Pass          string
	Files         int
	FilteredFiles int
	Inserted      map[entity.Kind]int
	Skipped       map[entity.Kind]int
	Duration      time.Duration
}

func newPassReport(pass string) PassReport {
	return PassReport{
		Pass:     pass,
		Inserted: make(map[entity.Kind]int),
		Skipped:  make(map[entity.Kind]int),
	}
}

func (r *PassReport) inserted(kind entity.Kind) {
	r.Inserted[kind]++
}

func (r *PassReport) skipped(kind entity.Kind) {
	r.Skipped[kind]++
}

// RunReport lists the passes that committed, in execution order.
type RunReport struct {
	RunID    string
	Passes   []PassReport
	Duration time.Duration
}

// Inserted sums rows written for kind over all committed passes.
func (r RunReport) Inserted(kind entity.Kind) int {
	total := 0
	for _, pass := range r.Passes {
		total += pass.Inserted[kind]
	}
	return total
}

func (r RunReport) Pass(name string) (PassReport, bool) {
	for _, pass := range r.Passes {
		if pass.Pass == name {
			return pass, true
		}
	}
	return PassReport{}, false
}
