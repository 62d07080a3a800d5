package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/matchfeed-loader/internal/app"
)

func resetCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop every table and re-apply all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			return withLoader(cmd, cfg, func(ctx context.Context, loader *app.Loader) error {
				if err := loader.Provisioner.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema reset")
				return nil
			})
		},
	}
}
