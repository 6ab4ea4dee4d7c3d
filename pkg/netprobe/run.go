// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/pkg"
	"github.com/telekom/netprobe/pkg/checks"
	"github.com/telekom/netprobe/pkg/checks/ping"
	"github.com/telekom/netprobe/pkg/checks/traceroute"
	"github.com/telekom/netprobe/pkg/config"
	"github.com/telekom/netprobe/pkg/metrics"
)

const shutdownTimeout = time.Second * 10

// Netprobe runs the diagnostics against a single target
type Netprobe struct {
	// config is the startup configuration of the run
	config *config.Config
	// metrics is used to collect metrics and traces
	metrics metrics.Provider
	// resolver looks up the addresses of a target name
	resolver Resolver
	// checks are run in order against the resolved address
	checks []checks.Check
	// out receives the rendered report
	out io.Writer
	// hostname returns the name of the host for the build info metric
	hostname func() (string, error)
}

// New creates a new Netprobe from the given configuration.
// The ping check always runs, the traceroute check only if enabled.
func New(cfg *config.Config, out io.Writer) *Netprobe {
	cs := []checks.Check{ping.NewCheck()}
	if cfg.Trace {
		cs = append(cs, traceroute.NewCheck())
	}

	return &Netprobe{
		config:   cfg,
		metrics:  metrics.New(cfg.Telemetry),
		resolver: net.DefaultResolver,
		checks:   cs,
		out:      out,
		hostname: os.Hostname,
	}
}

// Run resolves the target, runs all checks and writes the report.
// A failing check does not stop the remaining checks. All check
// failures are returned joined after the report was written.
func (n *Netprobe) Run(ctx context.Context, target string) (err error) {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx).With("target", target)

	if err = n.metrics.InitTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if sErr := n.shutdown(ctx); sErr != nil {
			err = errors.Join(err, sErr)
		}
	}()

	if err = n.registerMetrics(); err != nil {
		return err
	}

	rep := &Report{Target: target, Checks: []checks.ResultDTO{}}
	res, err := resolve(ctx, n.resolver, target)
	if err != nil {
		log.ErrorContext(ctx, "Failed to resolve target", "error", err)
		rep.Error = err.Error()
		return errors.Join(err, render(n.out, n.config.Output, rep))
	}
	rep.Resolution = res

	var errs []error
	address := res.Address()
	for _, c := range n.checks {
		log.DebugContext(ctx, "Running check", "check", c.Name(), "address", address)
		result, cErr := c.Run(ctx, address)
		if cErr != nil {
			errs = append(errs, &ErrRunningCheck{Check: c, Err: cErr})
			if result == nil {
				result = checks.NewResult(nil, cErr)
			}
		}
		rep.Checks = append(rep.Checks, checks.ResultDTO{Name: c.Name(), Result: result})
	}

	if n.config.HasMetricsFile() {
		if mErr := n.metrics.WriteTextfile(n.config.MetricsFile); mErr != nil {
			log.ErrorContext(ctx, "Failed to write metrics file", "error", mErr)
			errs = append(errs, mErr)
		}
	}

	if rErr := render(n.out, n.config.Output, rep); rErr != nil {
		errs = append(errs, rErr)
	}
	return errors.Join(errs...)
}

// registerMetrics registers the collectors of all checks and the build info.
func (n *Netprobe) registerMetrics() error {
	registry := n.metrics.GetRegistry()
	for _, c := range n.checks {
		for _, collector := range c.GetMetricCollectors() {
			if err := registry.Register(collector); err != nil {
				return fmt.Errorf("failed to register metrics of check %s: %w", c.Name(), err)
			}
		}
	}

	hostname, err := n.hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %w", err)
	}
	return metrics.RegisterBuildInfo(registry, pkg.Version, hostname)
}

// shutdown flushes the telemetry of the run.
// It uses a fresh context so a canceled run still exports its spans.
func (n *Netprobe) shutdown(ctx context.Context) error {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var sErrs ErrShutdown
	sErrs.errMetrics = n.metrics.Shutdown(ctx)
	if sErrs.HasError() {
		log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "errors", sErrs)
		return sErrs
	}
	return nil
}
