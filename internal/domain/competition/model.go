package competition

import (
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

// Competition is a league or tournament, independent of season.
type Competition struct {
	ID            int64
	CountryName   string
	Name          string
	Gender        string
	Youth         bool
	International bool
}

func (Competition) Kind() entity.Kind { return entity.KindCompetition }

func (c Competition) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}
	if c.CountryName == "" {
		return fmt.Errorf("competition country name is required")
	}
	if c.Gender == "" {
		return fmt.Errorf("competition gender is required")
	}

	return nil
}

// SeasonKey identifies a season; season ids are only unique within a competition.
type SeasonKey struct {
	SeasonID      int64
	CompetitionID int64
}

func (k SeasonKey) String() string {
	return fmt.Sprintf("%d/%d", k.CompetitionID, k.SeasonID)
}

// Season is one edition of a competition.
type Season struct {
	ID            int64
	CompetitionID int64
	Name          string
}

func (Season) Kind() entity.Kind { return entity.KindSeason }

func (s Season) Key() SeasonKey {
	return SeasonKey{SeasonID: s.ID, CompetitionID: s.CompetitionID}
}
