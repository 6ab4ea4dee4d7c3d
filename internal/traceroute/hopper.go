// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net"

	"github.com/telekom/netprobe/internal/probe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is an interface that defines the methods required for probing a single hop.
//
//go:generate go tool moq -out tracer_moq.go . tracer
type tracer interface {
	// trace probes the hop at the given TTL towards dst.
	trace(ctx context.Context, dst net.IP, ttl int) (Hop, error)
}

// hopper is responsible for managing the execution of traceroute hops for a target.
type hopper struct {
	client     tracer
	otelTracer trace.Tracer
	target     net.IP
	maxTTL     int
}

// run probes the hops one after another, each hop only after the previous one
// did not reach the target. It stops at the first hop answered by the target
// or when the hop ceiling is reached.
func (h *hopper) run(ctx context.Context) ([]Hop, error) {
	dst := h.target.String()
	hops := make([]Hop, 0, h.maxTTL)
	for ttl := 1; ttl <= h.maxTTL; ttl++ {
		hop, err := h.hop(ctx, ttl)
		if err != nil {
			return hops, err
		}
		hops = append(hops, hop)

		if ttl == 1 && hop.Responder == NoResponse {
			return hops, probe.NewError(probe.KindPrivilegeRequired, "traceroute", errFirstHopSilent)
		}
		if hop.Responder == dst {
			break
		}
	}
	return hops, nil
}

// hop probes a single TTL inside its own span.
func (h *hopper) hop(ctx context.Context, ttl int) (Hop, error) {
	ctx, hopSpan := h.otelTracer.Start(ctx, h.target.String(), trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", h.target),
		attribute.Int("traceroute.target.ttl", ttl),
	))
	defer hopSpan.End()

	hop, err := h.client.trace(ctx, h.target, ttl)
	if err != nil {
		hopSpan.RecordError(err)
		hopSpan.SetStatus(codes.Error, "Failed to execute hop trace")
		return Hop{}, err
	}
	hopSpan.SetAttributes(
		attribute.String("traceroute.target.hop.responder", hop.Responder),
		attribute.Bool("traceroute.target.reached", hop.Responder == h.target.String()),
	)
	return hop, nil
}
