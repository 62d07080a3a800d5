package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/event"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/feed"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/scope"
	"github.com/riskibarqy/matchfeed-loader/internal/platform/cache"
	"github.com/riskibarqy/matchfeed-loader/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultIngestionWorkers = 4
	defaultDecodeWindow     = 16
)

type IngestionConfig struct {
	Whitelist scope.Whitelist
	// Workers bounds concurrent file decoding inside a pass.
	Workers int
	// DecodeWindow is how many files are decoded ahead of the writer.
	DecodeWindow int
	ResetSchema  bool
}

// IngestionService loads the feed into storage in dependency-ordered passes.
type IngestionService struct {
	source      feed.Source
	gateway     entity.Gateway
	provisioner entity.SchemaProvisioner
	cfg         IngestionConfig
	logger      *logging.Logger
}

func NewIngestionService(
	source feed.Source,
	gateway entity.Gateway,
	provisioner entity.SchemaProvisioner,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultIngestionWorkers
	}
	if cfg.DecodeWindow <= 0 {
		cfg.DecodeWindow = defaultDecodeWindow
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		source:      source,
		gateway:     gateway,
		provisioner: provisioner,
		cfg:         cfg,
		logger:      logger,
	}
}

// runState is the per-run collaborator set shared by the passes.
type runState struct {
	pool  *ants.Pool
	cache *cache.EntityCache
	// matches is the scope set: match ids whose season file passed the whitelist.
	matches *cache.SeenSet[int64]
}

func newRunState(pool *ants.Pool) *runState {
	return &runState{
		pool:    pool,
		cache:   cache.NewEntityCache(),
		matches: cache.NewSeenSet[int64](),
	}
}

func (s *IngestionService) passes() []passSpec {
	return []passSpec{
		{name: PassCompetitions, run: s.runCompetitionsPass},
		{name: PassSeasons, dependsOn: []string{PassCompetitions}, run: s.runSeasonsPass},
		{name: PassMatches, dependsOn: []string{PassSeasons}, run: s.runMatchesPass},
		{name: PassLineups, dependsOn: []string{PassMatches}, run: s.runLineupsPass},
		{name: PassEvents, dependsOn: []string{PassLineups}, run: s.runEventsPass},
	}
}

// Run resets the schema when configured and executes every pass. Passes commit
// one at a time; on error the in-flight pass is rolled back and the returned
// report lists only the passes that committed.
func (s *IngestionService) Run(ctx context.Context) (RunReport, error) {
	// Run is the root of a CLI invocation, so it always opens a span.
	ctx, span := usecaseTracer.Start(ctx, "usecase.IngestionService.Run")
	defer span.End()

	report := RunReport{RunID: uuid.NewString()}
	span.SetAttributes(attribute.String("run.id", report.RunID))
	logger := s.logger.With("run_id", report.RunID)
	started := time.Now()

	if s.source == nil || s.gateway == nil {
		return report, fmt.Errorf("%w: source and gateway are required", ErrInvalidInput)
	}

	plan, err := schedulePasses(s.passes())
	if err != nil {
		return report, fmt.Errorf("schedule passes: %w", err)
	}

	if s.cfg.ResetSchema {
		if s.provisioner == nil {
			return report, fmt.Errorf("%w: schema reset requested without a provisioner", ErrInvalidInput)
		}
		if err := s.provisioner.Reset(ctx); err != nil {
			return report, fmt.Errorf("reset schema: %w", err)
		}
		logger.InfoContext(ctx, "schema reset")
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	state := newRunState(pool)
	for _, pass := range plan {
		if err := ctx.Err(); err != nil {
			return report, &PassError{Pass: pass.name, Err: err}
		}

		passReport, err := s.runPass(ctx, state, pass)
		if err != nil {
			logger.ErrorContext(ctx, "ingestion pass failed", "pass", pass.name, "error", err)
			return report, err
		}
		report.Passes = append(report.Passes, passReport)
		logger.InfoContext(ctx, "ingestion pass committed",
			"pass", passReport.Pass,
			"files", passReport.Files,
			"filtered_files", passReport.FilteredFiles,
			"inserted", passReport.Inserted,
			"skipped", passReport.Skipped,
			"duration", passReport.Duration,
		)
	}

	report.Duration = time.Since(started)
	logger.InfoContext(ctx, "ingestion completed", "passes", len(report.Passes), "duration", report.Duration)
	return report, nil
}

func (s *IngestionService) runPass(ctx context.Context, state *runState, pass passSpec) (PassReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.pass."+pass.name)
	defer span.End()

	started := time.Now()
	report := newPassReport(pass.name)
	err := s.gateway.WithinPass(ctx, pass.name, func(ctx context.Context, w entity.Writer) error {
		return pass.run(ctx, state, w, &report)
	})
	if err != nil {
		passErr := &PassError{Pass: pass.name, Err: err}
		var fe *fileError
		if errors.As(err, &fe) {
			passErr.File = fe.path
			passErr.Err = fe.err
		}
		span.RecordError(passErr)
		span.SetStatus(codes.Error, "pass rolled back")
		return PassReport{}, passErr
	}

	report.Duration = time.Since(started)
	span.SetAttributes(
		attribute.Int("pass.files", report.Files),
		attribute.Int("pass.filtered_files", report.FilteredFiles),
	)
	return report, nil
}

func (s *IngestionService) runCompetitionsPass(ctx context.Context, state *runState, w entity.Writer, report *PassReport) error {
	path := s.source.CompetitionsPath()
	rows, err := s.source.ReadCompetitions(ctx)
	if err != nil {
		return inFile(path, sourceError(err))
	}
	report.Files++

	for idx, raw := range rows {
		comp, _, err := resolveCompetition(idx, raw)
		if err != nil {
			return inFile(path, err)
		}
		if err := s.writeDeduplicated(ctx, state, w, report, cache.KeyOf(entity.KindCompetition, comp.ID), comp); err != nil {
			return inFile(path, err)
		}
	}
	return nil
}

func (s *IngestionService) runSeasonsPass(ctx context.Context, state *runState, w entity.Writer, report *PassReport) error {
	path := s.source.CompetitionsPath()
	rows, err := s.source.ReadCompetitions(ctx)
	if err != nil {
		return inFile(path, sourceError(err))
	}
	report.Files++

	for idx, raw := range rows {
		_, season, err := resolveCompetition(idx, raw)
		if err != nil {
			return inFile(path, err)
		}
		if !state.cache.Seen(cache.KeyOf(entity.KindCompetition, season.CompetitionID)) {
			return inFile(path, referentialf("season %s: competition %d was not loaded", season.Key(), season.CompetitionID))
		}
		key := cache.SeasonKeyOf(season.ID, season.CompetitionID)
		if err := s.writeDeduplicated(ctx, state, w, report, key, season); err != nil {
			return inFile(path, err)
		}
	}
	return nil
}

func (s *IngestionService) runMatchesPass(ctx context.Context, state *runState, w entity.Writer, report *PassReport) error {
	files, err := s.source.SeasonFiles(ctx)
	if err != nil {
		return sourceError(err)
	}

	inScope := make([]feed.SeasonFile, 0, len(files))
	for _, file := range files {
		report.Files++
		if !s.cfg.Whitelist.Allows(file.Competition, file.Season) {
			report.FilteredFiles++
			s.logger.DebugContext(ctx, "season file out of scope",
				"competition", file.Competition,
				"season", file.Season,
			)
			continue
		}
		inScope = append(inScope, file)
	}

	return decodeInOrder(ctx, state.pool, s.cfg.DecodeWindow, inScope,
		func(ctx context.Context, file feed.SeasonFile) ([]feed.Match, error) {
			rows, err := s.source.ReadMatches(ctx, file.Path)
			if err != nil {
				return nil, inFile(file.Path, sourceError(err))
			}
			return rows, nil
		},
		func(file feed.SeasonFile, rows []feed.Match) error {
			for idx, raw := range rows {
				if err := s.applyMatch(ctx, state, w, report, idx, raw); err != nil {
					return inFile(file.Path, err)
				}
			}
			return nil
		},
	)
}

func (s *IngestionService) applyMatch(ctx context.Context, state *runState, w entity.Writer, report *PassReport, idx int, raw feed.Match) error {
	m, teams, err := resolveMatch(idx, raw)
	if err != nil {
		return err
	}
	if !state.cache.Seen(cache.SeasonKeyOf(m.SeasonID, m.CompetitionID)) {
		return referentialf("match %d: season %d of competition %d was not loaded", m.ID, m.SeasonID, m.CompetitionID)
	}

	for _, t := range teams {
		if err := s.writeDeduplicated(ctx, state, w, report, cache.KeyOf(entity.KindTeam, t.ID), t); err != nil {
			return err
		}
	}

	if !state.matches.Add(m.ID) {
		return fmt.Errorf("%w: match %d appears more than once in the feed", ErrDuplicateKey, m.ID)
	}
	return s.insertStrict(ctx, w, report, m)
}

func (s *IngestionService) runLineupsPass(ctx context.Context, state *runState, w entity.Writer, report *PassReport) error {
	files, err := s.source.LineupFiles(ctx)
	if err != nil {
		return sourceError(err)
	}

	return decodeInOrder(ctx, state.pool, s.cfg.DecodeWindow, s.scopedFiles(state, files, report),
		func(ctx context.Context, file feed.MatchFile) ([]feed.Lineup, error) {
			rows, err := s.source.ReadLineups(ctx, file.Path)
			if err != nil {
				return nil, inFile(file.Path, sourceError(err))
			}
			return rows, nil
		},
		func(file feed.MatchFile, rows []feed.Lineup) error {
			for idx, raw := range rows {
				if err := s.applyLineup(ctx, state, w, report, file.MatchID, idx, raw); err != nil {
					return inFile(file.Path, err)
				}
			}
			return nil
		},
	)
}

func (s *IngestionService) applyLineup(ctx context.Context, state *runState, w entity.Writer, report *PassReport, matchID int64, idx int, raw feed.Lineup) error {
	teamID, players, err := resolveLineup(matchID, idx, raw)
	if err != nil {
		return err
	}
	if !state.cache.Seen(cache.KeyOf(entity.KindTeam, teamID)) {
		return referentialf("match %d lineup: team %d was not loaded", matchID, teamID)
	}

	for _, p := range players {
		if err := s.writeDeduplicated(ctx, state, w, report, cache.KeyOf(entity.KindPlayer, p.ID), p); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestionService) runEventsPass(ctx context.Context, state *runState, w entity.Writer, report *PassReport) error {
	files, err := s.source.EventFiles(ctx)
	if err != nil {
		return sourceError(err)
	}

	return decodeInOrder(ctx, state.pool, s.cfg.DecodeWindow, s.scopedFiles(state, files, report),
		func(ctx context.Context, file feed.MatchFile) ([]feed.Event, error) {
			rows, err := s.source.ReadEvents(ctx, file.Path)
			if err != nil {
				return nil, inFile(file.Path, sourceError(err))
			}
			return rows, nil
		},
		func(file feed.MatchFile, rows []feed.Event) error {
			for idx, raw := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.applyEvent(ctx, state, w, report, file.MatchID, idx, raw); err != nil {
					return inFile(file.Path, err)
				}
			}
			return nil
		},
	)
}

func (s *IngestionService) applyEvent(ctx context.Context, state *runState, w entity.Writer, report *PassReport, matchID int64, idx int, raw feed.Event) error {
	base, err := resolveEvent(matchID, idx, raw)
	if err != nil {
		return err
	}
	if base.PlayerID != nil && !state.cache.Seen(cache.KeyOf(entity.KindPlayer, *base.PlayerID)) {
		return referentialf("event %s: player %d was not loaded", base.ID, *base.PlayerID)
	}
	if err := s.insertStrict(ctx, w, report, base); err != nil {
		return err
	}

	detail, err := DispatchDetail(base.TypeCode, raw)
	if err != nil {
		return err
	}
	if detail == nil {
		return nil
	}
	if pass, ok := detail.(event.Pass); ok && pass.RecipientPlayerID != nil {
		if !state.cache.Seen(cache.KeyOf(entity.KindPlayer, *pass.RecipientPlayerID)) {
			return referentialf("event %s: pass recipient %d was not loaded", base.ID, *pass.RecipientPlayerID)
		}
	}
	return s.insertStrict(ctx, w, report, detail)
}

// scopedFiles keeps the per-match files whose match passed the whitelist.
func (s *IngestionService) scopedFiles(state *runState, files []feed.MatchFile, report *PassReport) []feed.MatchFile {
	out := make([]feed.MatchFile, 0, len(files))
	for _, file := range files {
		report.Files++
		if !state.matches.Contains(file.MatchID) {
			report.FilteredFiles++
			continue
		}
		out = append(out, file)
	}
	return out
}

// writeDeduplicated writes a dedup-eligible record once per run. Repeats are
// dropped by the cache; a conflict that still reaches storage is ignored there.
func (s *IngestionService) writeDeduplicated(ctx context.Context, state *runState, w entity.Writer, report *PassReport, key cache.Key, rec entity.Record) error {
	if state.cache.Observe(key) == cache.ObservationDuplicate {
		report.skipped(rec.Kind())
		return nil
	}

	inserted, err := w.InsertIgnoreConflict(ctx, rec)
	if err != nil {
		return classifyWriteError(rec, err)
	}
	if inserted {
		report.inserted(rec.Kind())
	} else {
		report.skipped(rec.Kind())
	}
	return nil
}

func (s *IngestionService) insertStrict(ctx context.Context, w entity.Writer, report *PassReport, rec entity.Record) error {
	if err := w.Insert(ctx, rec); err != nil {
		return classifyWriteError(rec, err)
	}
	report.inserted(rec.Kind())
	return nil
}

func classifyWriteError(rec entity.Record, err error) error {
	label := recordLabel(rec)
	switch {
	case errors.Is(err, entity.ErrDuplicateKey):
		return fmt.Errorf("%w: %s: %w", ErrDuplicateKey, label, err)
	case errors.Is(err, entity.ErrMissingParent):
		return fmt.Errorf("%w: %s: %w", ErrReferential, label, err)
	case errors.Is(err, entity.ErrInvalidRecord):
		return fmt.Errorf("%w: %s: %w", ErrStructural, label, err)
	default:
		return fmt.Errorf("write %s: %w", label, err)
	}
}

func sourceError(err error) error {
	if errors.Is(err, feed.ErrMalformed) {
		return fmt.Errorf("%w: %w", ErrStructural, err)
	}
	return err
}
