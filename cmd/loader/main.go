// Package main is the entry point for the matchfeed-loader CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/matchfeed-loader/internal/app"
	"github.com/riskibarqy/matchfeed-loader/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "matchfeed-loader",
		Short:         "Load football open-data JSON into a relational store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(ingestCmd(&envFile))
	cmd.AddCommand(resetCmd(&envFile))
	cmd.AddCommand(migrateCmd(&envFile))
	cmd.AddCommand(statsCmd(&envFile))
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the dotenv file and the environment.
func loadConfig(envFile string) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.ServiceVersion == "dev" {
		cfg.ServiceVersion = version
	}
	return cfg, nil
}

// withLoader starts telemetry, wires a loader and hands it to fn. Everything is
// torn down before returning, including when fn fails or the process is signalled.
func withLoader(cmd *cobra.Command, cfg config.Config, fn func(ctx context.Context, loader *app.Loader) error) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry, err := app.StartTelemetry(cfg)
	if err != nil {
		return fmt.Errorf("start telemetry: %w", err)
	}
	defer func() {
		if shutdownErr := telemetry.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil && err == nil {
			err = fmt.Errorf("shutdown telemetry: %w", shutdownErr)
		}
	}()

	loader, err := app.NewLoader(ctx, cfg, telemetry.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := loader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := fn(ctx, loader); err != nil {
		telemetry.Logger.ErrorContext(ctx, "command failed", "command", cmd.CommandPath(), "error", err)
		return err
	}
	return nil
}
