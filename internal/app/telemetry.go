package app

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/matchfeed-loader/internal/config"
	"github.com/riskibarqy/matchfeed-loader/internal/observability"
	"github.com/riskibarqy/matchfeed-loader/internal/platform/logging"
)

const pprofStopTimeout = 5 * time.Second

// Telemetry owns the process logger and every optional exporter.
type Telemetry struct {
	Logger    *logging.Logger
	shutdowns []func(context.Context) error
}

// StartTelemetry builds the logger and starts uptrace, pyroscope and pprof
// according to cfg. The returned logger is also installed as the default.
func StartTelemetry(cfg config.Config) (*Telemetry, error) {
	logger, stopLogs, err := observability.InitBetterStackLogger(cfg, logging.NewJSON(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)
	t := &Telemetry{Logger: logger}
	t.shutdowns = append(t.shutdowns, stopLogs)

	stopTraces, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.shutdowns = append(t.shutdowns, stopTraces)

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.shutdowns = append(t.shutdowns, func(context.Context) error { return stopProfiler() })

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.shutdowns = append(t.shutdowns, func(context.Context) error {
		return observability.StopPprofServer(pprofServer, logger, pprofStopTimeout)
	})

	return t, nil
}

// Shutdown stops exporters in reverse start order; the log drain runs last.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		if err := t.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdowns = nil
	return errors.Join(errs...)
}
