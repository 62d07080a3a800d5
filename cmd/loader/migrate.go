package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/matchfeed-loader/internal/app"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/schema"
)

func migrateCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage schema migrations without loading data",
	}

	run := func(fn func(ctx context.Context, cmd *cobra.Command, p *schema.Provisioner, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			return withLoader(cmd, cfg, func(ctx context.Context, loader *app.Loader) error {
				return fn(ctx, cmd, loader.Provisioner, args)
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, p *schema.Provisioner, _ []string) error {
			if err := p.Up(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, p *schema.Provisioner, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			if err := p.Steps(ctx, -steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, p *schema.Provisioner, _ []string) error {
			v, dirty, err := p.Version(ctx)
			if errors.Is(err, schema.ErrNoVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "version: none")
				fmt.Fprintln(cmd.OutOrStdout(), "dirty: false")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", v)
			fmt.Fprintf(cmd.OutOrStdout(), "dirty: %t\n", dirty)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, p *schema.Provisioner, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			if err := p.Force(ctx, v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forced version to %d\n", v)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "goto <version>",
		Aliases: []string{"to"},
		Short:   "Migrate up or down to a target version",
		Args:    cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, p *schema.Provisioner, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			if err := p.Migrate(ctx, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated to version %d\n", target)
			return nil
		}),
	})

	return cmd
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < -1 {
		return 0, fmt.Errorf("version must be >= -1")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}
