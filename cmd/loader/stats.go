package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/matchfeed-loader/internal/app"
	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/repository/sqlstore"
)

type statsView struct {
	Tables     map[entity.Kind]int64       `json:"tables"`
	Seasons    []sqlstore.SeasonMatchCount `json:"seasons"`
	EventTypes []sqlstore.EventTypeCount   `json:"event_types,omitempty"`
}

func statsCmd(envFile *string) *cobra.Command {
	var (
		competitions []string
		matchID      int64
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise what the store currently holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			competitionIDs, err := parseIDs(competitions)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}

			return withLoader(cmd, cfg, func(ctx context.Context, loader *app.Loader) error {
				var view statsView
				if view.Tables, err = loader.Store.TableCounts(ctx); err != nil {
					return err
				}
				if view.Seasons, err = loader.Store.SeasonMatchCounts(ctx, competitionIDs); err != nil {
					return err
				}
				if matchID > 0 {
					if view.EventTypes, err = loader.Store.EventTypeCounts(ctx, matchID); err != nil {
						return err
					}
				}

				if asJSON {
					raw, err := sonic.ConfigStd.MarshalIndent(view, "", "  ")
					if err != nil {
						return fmt.Errorf("encode stats: %w", err)
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
					return err
				}
				printStats(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&competitions, "competition", nil, "restrict season counts to these competition ids")
	cmd.Flags().Int64Var(&matchID, "match", 0, "also break down one match's events by type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	return cmd
}

func parseIDs(raw []string) ([]int64, error) {
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid competition id %q: %w", item, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func printStats(out io.Writer, view statsView) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tROWS")
	for _, kind := range entity.Kinds() {
		fmt.Fprintf(tw, "%s\t%d\n", kind, view.Tables[kind])
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "COMPETITION\tSEASON\tMATCHES")
	for _, row := range view.Seasons {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", row.CompetitionID, row.SeasonID, row.Matches)
	}
	if len(view.EventTypes) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "EVENT TYPE\tEVENTS")
		for _, row := range view.EventTypes {
			fmt.Fprintf(tw, "%d\t%d\n", row.EventTypeID, row.Events)
		}
	}
	_ = tw.Flush()
}
