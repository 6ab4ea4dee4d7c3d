// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"os"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/probe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Client = (*genericClient)(nil)

// Client is able to run a traceroute to a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run executes the traceroute to the given IPv4 address.
	// The returned Result may hold hops even if an error is returned.
	Run(ctx context.Context, address string) (Result, error)
}

type genericClient struct {
	// udp is the hop prober used when no traceroute utility is installed.
	udp tracer
	// process runs the system traceroute utility.
	process *processTracer
	// stat checks for the traceroute utility.
	stat probe.StatFunc
}

// NewClient returns a [Client] that prefers the system traceroute utility
// and otherwise runs a UDP traceroute.
func NewClient() Client {
	return &genericClient{
		udp:     newUDPClient(),
		process: &processTracer{runner: probe.NewRunner()},
		stat:    os.Stat,
	}
}

func (c *genericClient) Run(ctx context.Context, address string) (Result, error) {
	otelTracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.genericClient")
	ctx, span := otelTracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("traceroute.target.address", address),
		attribute.Int("traceroute.options.max_hops", maxHops),
		attribute.Stringer("traceroute.options.timeout", hopTimeout),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", address)

	ip, err := probe.ParseAddress(address)
	if err != nil {
		return Result{}, probe.WrapError(ctx, err, "invalid traceroute target")
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return Result{}, probe.WrapError(ctx,
			probe.NewError(probe.KindInvalidTarget, "traceroute", errIPv6NotSupported), "invalid traceroute target")
	}

	res := Result{Target: ip4.String()}
	if binary := probe.FirstExisting(c.stat, tracerouteBinaries...); binary != "" {
		log.DebugContext(ctx, "Running system traceroute", "binary", binary)
		res.Source = SourceProcess
		res.Hops, err = c.process.run(ctx, binary, ip4)
	} else {
		log.DebugContext(ctx, "No traceroute utility found, running UDP traceroute")
		h := &hopper{client: c.udp, otelTracer: otelTracer, target: ip4, maxTTL: maxHops}
		res.Source = SourceUDP
		res.Hops, err = h.run(ctx)
	}

	span.SetAttributes(
		attribute.String("traceroute.source", string(res.Source)),
		attribute.Int("traceroute.hops.count", len(res.Hops)),
		attribute.Bool("traceroute.target.reached", res.Reached()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Traceroute failed")
	}
	logHops(ctx, res)
	return res, err
}
