package usecase

import (
	"github.com/riskibarqy/matchfeed-loader/internal/domain/event"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/feed"
)

// DispatchDetail maps a base event's type code to at most one typed detail row.
// Codes outside the table yield a nil detail and no error.
func DispatchDetail(code event.TypeCode, raw feed.Event) (event.Detail, error) {
	switch code {
	case event.TypeShot:
		if raw.Shot == nil {
			return nil, structuralf("event %s: shot block is required for type %d", raw.ID, code)
		}
		if err := requireFields("event "+raw.ID+" shot", raw.Shot); err != nil {
			return nil, err
		}
		return event.Shot{
			EventID:       raw.ID,
			ExpectedGoals: raw.Shot.StatsbombXG.String(),
			FirstTime:     explicitlyTrue(raw.Shot.FirstTime),
		}, nil

	case event.TypeDribble:
		if raw.Dribble == nil {
			return nil, structuralf("event %s: dribble block is required for type %d", raw.ID, code)
		}
		if err := requireFields("event "+raw.ID+" dribble", raw.Dribble); err != nil {
			return nil, err
		}
		return event.Dribble{
			EventID:   raw.ID,
			Nutmeg:    explicitlyTrue(raw.Dribble.Nutmeg),
			OutcomeID: *raw.Dribble.Outcome.ID,
		}, nil

	case event.TypeDribbledPast:
		return event.DribbledPast{EventID: raw.ID}, nil

	case event.TypePass:
		if raw.Pass == nil {
			return nil, structuralf("event %s: pass block is required for type %d", raw.ID, code)
		}
		if err := requireFields("event "+raw.ID+" pass", raw.Pass); err != nil {
			return nil, err
		}
		out := event.Pass{
			EventID: raw.ID,
			// Any outcome marker, even an empty one, means the pass did not reach its target.
			Succeeded:   raw.Pass.Outcome == nil,
			ThroughBall: explicitlyTrue(raw.Pass.ThroughBall),
		}
		if raw.Pass.Recipient != nil {
			recipientID := *raw.Pass.Recipient.ID
			out.RecipientPlayerID = &recipientID
		}
		return out, nil

	default:
		return nil, nil
	}
}

func explicitlyTrue(v *bool) bool {
	return v != nil && *v
}
