// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/traceroute"
	"github.com/telekom/netprobe/pkg/checks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ checks.Check = (*Traceroute)(nil)

const CheckName = "traceroute"

func NewCheck() checks.Check {
	c := &Traceroute{
		client:  traceroute.NewClient(),
		metrics: newMetrics(),
	}
	c.tracer = otel.Tracer(c.Name())
	return c
}

type Traceroute struct {
	metrics metrics
	client  traceroute.Client
	tracer  trace.Tracer
}

// Run traces the route to the target once.
// Hops recorded before a failure, e.g. the silent first hop, are part of the result.
func (tr *Traceroute) Run(ctx context.Context, target string) (*checks.Result, error) {
	log := logger.FromContext(ctx).With("check", CheckName, "target", target)
	ctx, span := tr.tracer.Start(ctx, "traceroute.check", trace.WithAttributes(
		attribute.String("traceroute.target", target),
	))
	defer span.End()

	res, err := tr.client.Run(ctx, target)
	if err != nil {
		log.ErrorContext(ctx, "Failed to run traceroute", "error", err)
		span.SetStatus(codes.Error, "Failed to run traceroute")
		span.RecordError(err)
		if len(res.Hops) == 0 {
			return checks.NewResult(nil, err), err
		}
		return checks.NewResult(res, err), err
	}

	tr.metrics.Set(res)
	log.DebugContext(ctx, "Successfully finished traceroute check run", "hops", len(res.Hops), "reached", res.Reached())
	return checks.NewResult(res, nil), nil
}

// GetMetricCollectors allows the check to provide prometheus metric collectors
func (tr *Traceroute) GetMetricCollectors() []prometheus.Collector {
	return tr.metrics.GetCollectors()
}

// Name returns the name of the check
func (tr *Traceroute) Name() string {
	return CheckName
}
