package team

import (
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

// Team is a club or national side. Names are unique across the dataset.
type Team struct {
	ID   int64
	Name string
}

func (Team) Kind() entity.Kind { return entity.KindTeam }

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team %d name is required", t.ID)
	}

	return nil
}
