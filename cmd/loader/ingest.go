package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/matchfeed-loader/internal/app"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/usecase"
)

type ingestFlags struct {
	reset        bool
	dataDir      string
	competitions []string
	seasons      []string
	workers      int
}

func ingestCmd(envFile *string) *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the whitelisted feed scope in dependency order",
		Long: `Ingest reads competitions, matches, lineups and events from the data
directory and writes them in five passes. Each pass commits on its own; the
first failing pass is rolled back and the command exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("reset") {
				cfg.ResetSchema = flags.reset
			}
			if fs.Changed("data-dir") {
				cfg.DataDir = flags.dataDir
			}
			if fs.Changed("competitions") {
				cfg.Competitions = flags.competitions
			}
			if fs.Changed("seasons") {
				cfg.Seasons = flags.seasons
			}
			if fs.Changed("workers") {
				if flags.workers < 1 {
					return fmt.Errorf("--workers must be >= 1")
				}
				cfg.Workers = flags.workers
			}

			return withLoader(cmd, cfg, func(ctx context.Context, loader *app.Loader) error {
				report, err := loader.Ingest(ctx)
				printRunReport(cmd.OutOrStdout(), report)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&flags.reset, "reset", true, "drop and recreate the schema before loading (INGEST_RESET_SCHEMA)")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "feed root containing competitions.json (INGEST_DATA_DIR)")
	cmd.Flags().StringSliceVar(&flags.competitions, "competitions", nil, "whitelisted competition ids (INGEST_COMPETITIONS)")
	cmd.Flags().StringSliceVar(&flags.seasons, "seasons", nil, "whitelisted season ids (INGEST_SEASONS)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent file decoders (INGEST_WORKERS)")

	return cmd
}

func printRunReport(out io.Writer, report usecase.RunReport) {
	if report.RunID == "" {
		return
	}
	fmt.Fprintf(out, "run %s: %d pass(es) committed in %s\n", report.RunID, len(report.Passes), report.Duration)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PASS\tFILES\tFILTERED\tKIND\tINSERTED\tSKIPPED")
	for _, pass := range report.Passes {
		for _, kind := range entity.Kinds() {
			inserted, skipped := pass.Inserted[kind], pass.Skipped[kind]
			if inserted == 0 && skipped == 0 {
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%d\n", pass.Pass, pass.Files, pass.FilteredFiles, kind, inserted, skipped)
		}
	}
	_ = tw.Flush()
}
