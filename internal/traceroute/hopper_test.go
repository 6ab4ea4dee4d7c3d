// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/netprobe/internal/probe"
	"go.opentelemetry.io/otel/trace/noop"
)

// route returns a tracer answering with the given responders, one per TTL.
// TTLs beyond the route are answered by the target itself.
func route(target net.IP, responders ...string) *tracerMock {
	return &tracerMock{
		traceFunc: func(_ context.Context, dst net.IP, ttl int) (Hop, error) {
			if !dst.Equal(target) {
				return Hop{}, fmt.Errorf("unexpected destination %s", dst)
			}
			responder := dst.String()
			if ttl <= len(responders) {
				responder = responders[ttl-1]
			}
			return Hop{TTL: ttl, Responder: responder, RTTs: []float64{float64(ttl)}}, nil
		},
	}
}

func TestHopper_run(t *testing.T) {
	target := net.IPv4(192, 0, 2, 1).To4()

	tests := []struct {
		name         string
		maxTTL       int
		responders   []string
		wantTTLs     []int
		wantErrKind  probe.Kind
		wantReached  bool
		wantLastResp string
	}{
		{
			name:         "target answers directly",
			maxTTL:       maxHops,
			wantTTLs:     []int{1},
			wantReached:  true,
			wantLastResp: "192.0.2.1",
		},
		{
			name:         "stops at the first hop answered by the target",
			maxTTL:       maxHops,
			responders:   []string{"10.0.0.1", NoResponse, "10.0.2.1"},
			wantTTLs:     []int{1, 2, 3, 4},
			wantReached:  true,
			wantLastResp: "192.0.2.1",
		},
		{
			name:         "hop ceiling reached",
			maxTTL:       5,
			responders:   []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"},
			wantTTLs:     []int{1, 2, 3, 4, 5},
			wantLastResp: "10.0.0.5",
		},
		{
			name:         "silent first hop",
			maxTTL:       maxHops,
			responders:   []string{NoResponse, "10.0.0.2"},
			wantTTLs:     []int{1},
			wantErrKind:  probe.KindPrivilegeRequired,
			wantLastResp: NoResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := route(target, tt.responders...)
			h := &hopper{
				client:     mock,
				otelTracer: noop.NewTracerProvider().Tracer("test"),
				target:     target,
				maxTTL:     tt.maxTTL,
			}

			hops, err := h.run(t.Context())
			if tt.wantErrKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrKind, probe.KindOf(err))
				assert.ErrorIs(t, err, errFirstHopSilent)
			} else {
				require.NoError(t, err)
			}

			var ttls []int
			for _, hop := range hops {
				ttls = append(ttls, hop.TTL)
			}
			if diff := cmp.Diff(tt.wantTTLs, ttls); diff != "" {
				t.Errorf("hop TTLs mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, mock.traceCalls(), len(tt.wantTTLs), "no hop may be probed after the run stopped")
			assert.Equal(t, tt.wantLastResp, hops[len(hops)-1].Responder)

			res := Result{Target: target.String(), Hops: hops}
			assert.Equal(t, tt.wantReached, res.Reached())
		})
	}
}

func TestHopper_run_error(t *testing.T) {
	target := net.IPv4(192, 0, 2, 1).To4()
	sockErr := probe.NewError(probe.KindSocketFailure, "dial udp", errors.New("no buffer space"))
	mock := &tracerMock{
		traceFunc: func(_ context.Context, _ net.IP, ttl int) (Hop, error) {
			if ttl == 3 {
				return Hop{}, sockErr
			}
			return Hop{TTL: ttl, Responder: fmt.Sprintf("10.0.0.%d", ttl), RTTs: []float64{1}}, nil
		},
	}
	h := &hopper{
		client:     mock,
		otelTracer: noop.NewTracerProvider().Tracer("test"),
		target:     target,
		maxTTL:     maxHops,
	}

	hops, err := h.run(t.Context())

	assert.ErrorIs(t, err, probe.ErrSocketFailure)
	assert.Len(t, hops, 2)
	assert.Len(t, mock.traceCalls(), 3)
}

func TestHopper_run_invariants(t *testing.T) {
	target := net.IPv4(198, 51, 100, 7).To4()
	responders := make([]string, maxHops+5)
	for i := range responders {
		responders[i] = fmt.Sprintf("10.0.%d.1", i)
	}
	h := &hopper{
		client:     route(target, responders...),
		otelTracer: noop.NewTracerProvider().Tracer("test"),
		target:     target,
		maxTTL:     maxHops,
	}

	hops, err := h.run(t.Context())
	require.NoError(t, err)

	assert.LessOrEqual(t, len(hops), maxHops)
	for i, hop := range hops {
		assert.Equal(t, i+1, hop.TTL, "hop indices are strictly increasing from 1")
		assert.Len(t, hop.RTTs, 1)
	}
}
