// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"context"
	"errors"
	"net"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/probe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Pinger = (*genericPinger)(nil)

// Pinger measures the round-trip latency to an address.
//
//go:generate go tool moq -out pinger_moq.go . Pinger
type Pinger interface {
	// Ping sends echo requests to the given IP address and returns the [Measurement].
	// A [probe.ErrParseFailure] may be returned together with a best-effort measurement.
	Ping(ctx context.Context, address string) (Measurement, error)
}

// prober is a single ping strategy.
//
//go:generate go tool moq -out prober_moq.go . prober
type prober interface {
	ping(ctx context.Context, ip net.IP) (Measurement, error)
}

type genericPinger struct {
	// raw is the preferred, raw socket based strategy.
	raw prober
	// process is the fallback running the system ping command.
	process prober
}

// NewPinger returns a [Pinger] that falls back to the system ping command
// when raw ICMP sockets are not permitted.
func NewPinger() Pinger {
	return &genericPinger{
		raw:     newRawProber(),
		process: newProcessProber(probe.NewRunner()),
	}
}

func (p *genericPinger) Ping(ctx context.Context, address string) (Measurement, error) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("ping.genericPinger")
	ctx, span := tracer.Start(ctx, "Ping", trace.WithAttributes(
		attribute.String("ping.target.address", address),
		attribute.Int("ping.count", probeCount),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", address)

	ip, err := probe.ParseAddress(address)
	if err != nil {
		return Measurement{}, probe.WrapError(ctx, err, "invalid ping target")
	}

	m, err := p.raw.ping(ctx, ip)
	switch {
	case err == nil:
	case errors.Is(err, probe.ErrPermissionDenied):
		log.InfoContext(ctx, "Raw ICMP not permitted, falling back to ping command")
		span.AddEvent("Falling back to ping command")
		m, err = p.process.ping(ctx, ip)
	default:
		span.SetStatus(codes.Error, "Raw ping failed")
		return Measurement{}, err
	}

	span.SetAttributes(
		attribute.String("ping.source", string(m.Source)),
		attribute.Int("ping.received", m.Received),
		attribute.Float64("ping.loss_percent", m.LossPercent),
	)
	if err != nil {
		span.RecordError(err)
	}
	log.DebugContext(ctx, "Ping finished", "source", m.Source, "received", m.Received, "avgMs", m.AvgMs)
	return m, err
}
