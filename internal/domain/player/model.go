package player

import (
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

// Player is an athlete attached to the first team they were observed with.
type Player struct {
	ID     int64
	Name   string
	TeamID int64
}

func (Player) Kind() entity.Kind { return entity.KindPlayer }

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player %d name is required", p.ID)
	}
	if p.TeamID == 0 {
		return fmt.Errorf("player %d team id is required", p.ID)
	}

	return nil
}
