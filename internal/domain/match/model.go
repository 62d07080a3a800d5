package match

import "github.com/riskibarqy/matchfeed-loader/internal/domain/entity"

// Match is a single fixture inside a competition season.
type Match struct {
	ID            int64
	CompetitionID int64
	SeasonID      int64
}

func (Match) Kind() entity.Kind { return entity.KindMatch }
