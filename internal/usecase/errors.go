package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/competition"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/event"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/match"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/player"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/team"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrStructural means a source record lacks a field the schema needs.
	ErrStructural = errors.New("structural error")
	// ErrReferential means a record points at a parent that was never written.
	ErrReferential = errors.New("referential error")
	// ErrDuplicateKey means an insert-only entity (match, event) was written twice.
	ErrDuplicateKey = errors.New("duplicate key conflict")
)

// PassError reports the pass, and the source file when known, that aborted a run.
type PassError struct {
	Pass string
	File string
	Err  error
}

func (e *PassError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("pass %s: %v", e.Pass, e.Err)
	}
	return fmt.Sprintf("pass %s: file %s: %v", e.Pass, e.File, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}

type fileError struct {
	path string
	err  error
}

func (e *fileError) Error() string {
	return e.path + ": " + e.err.Error()
}

func (e *fileError) Unwrap() error {
	return e.err
}

func inFile(path string, err error) error {
	if err == nil {
		return nil
	}
	var existing *fileError
	if errors.As(err, &existing) {
		return err
	}
	return &fileError{path: path, err: err}
}

func structuralf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

func referentialf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReferential, fmt.Sprintf(format, args...))
}

func recordLabel(rec entity.Record) string {
	switch r := rec.(type) {
	case competition.Competition:
		return fmt.Sprintf("competition %d", r.ID)
	case competition.Season:
		return fmt.Sprintf("season %s", r.Key())
	case match.Match:
		return fmt.Sprintf("match %d", r.ID)
	case team.Team:
		return fmt.Sprintf("team %d", r.ID)
	case player.Player:
		return fmt.Sprintf("player %d", r.ID)
	case event.Event:
		return fmt.Sprintf("event %s", r.ID)
	case event.Detail:
		return fmt.Sprintf("%s detail of event %s", r.Kind(), r.OwnerID())
	default:
		return string(rec.Kind())
	}
}
