// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/ping"
	"github.com/telekom/netprobe/internal/probe"
	"github.com/telekom/netprobe/pkg/checks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ checks.Check = (*Ping)(nil)

const CheckName = "ping"

// NewCheck returns the ping check using raw ICMP with the system ping command as fallback.
func NewCheck() checks.Check {
	c := &Ping{
		pinger:  ping.NewPinger(),
		metrics: newMetrics(),
	}
	c.tracer = otel.Tracer(c.Name())
	return c
}

// Ping measures the round-trip latency to a target.
type Ping struct {
	pinger  ping.Pinger
	metrics metrics
	tracer  trace.Tracer
}

// Run pings the target once and records the measurement.
// If the fallback output was only partially parsed, the best-effort
// measurement is returned together with the error.
func (p *Ping) Run(ctx context.Context, target string) (*checks.Result, error) {
	log := logger.FromContext(ctx).With("check", CheckName, "target", target)
	ctx, span := p.tracer.Start(ctx, "ping.check", trace.WithAttributes(
		attribute.String("ping.target", target),
	))
	defer span.End()

	res, err := p.pinger.Ping(ctx, target)
	if err != nil && !errors.Is(err, probe.ErrParseFailure) {
		log.ErrorContext(ctx, "Failed to run ping", "error", err)
		span.SetStatus(codes.Error, "Failed to run ping")
		span.RecordError(err)
		return checks.NewResult(nil, err), err
	}
	if err != nil {
		log.WarnContext(ctx, "Ping result may be incomplete", "error", err)
		span.RecordError(err)
	}

	p.metrics.Set(target, res)
	log.DebugContext(ctx, "Successfully finished ping check run", "source", res.Source)
	return checks.NewResult(res, err), err
}

// GetMetricCollectors allows the check to provide prometheus metric collectors
func (p *Ping) GetMetricCollectors() []prometheus.Collector {
	return p.metrics.GetCollectors()
}

// Name returns the name of the check
func (p *Ping) Name() string {
	return CheckName
}
