// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/probe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"
)

var _ tracer = (*udpClient)(nil)

// probePayload is the single byte sent per hop; its content is irrelevant.
var probePayload = []byte{0}

// udpClient probes hops with UDP datagrams and reads the kernel-delivered ICMP errors
// from the socket error queue, so no raw socket is required.
type udpClient struct {
	// dialUDP creates a UDP socket with the TTL configured.
	dialUDP func(ctx context.Context, dst net.IP, ttl int) (net.Conn, error)
	// newListener wraps the dialed socket in a reply listener.
	newListener func(conn net.Conn) (icmpListener, error)
	// timeout bounds the wait for a reply.
	timeout time.Duration
}

// newUDPClient constructs a UDP-based traceroute client using the run-as-non-root pattern.
func newUDPClient() *udpClient {
	return &udpClient{
		dialUDP:     dialUDP,
		newListener: newErrQueueListener,
		timeout:     hopTimeout,
	}
}

// trace performs a single UDP probe against dst with the given TTL.
// A hop that does not answer within the timeout is returned with the [NoResponse] sentinel
// and the full wait as its round-trip time.
func (c *udpClient) trace(ctx context.Context, dst net.IP, ttl int) (Hop, error) {
	span := trace.SpanFromContext(ctx)
	log := logger.FromContext(ctx).With("ttl", ttl)
	log.DebugContext(ctx, "Starting UDP traceroute hop", "target", dst)

	conn, err := c.dialUDP(ctx, dst, ttl)
	if err != nil {
		return Hop{}, probe.NewError(probe.KindSocketFailure, "dial udp",
			probe.WrapError(ctx, err, "failed to dial UDP connection"))
	}
	// The listener owns the connection from here on.
	listener, err := c.newListener(conn)
	if err != nil {
		_ = conn.Close()
		return Hop{}, probe.NewError(probe.KindSocketFailure, "listen",
			probe.WrapError(ctx, err, "failed creating errQueueListener"))
	}
	defer func() { _ = listener.Close() }()

	start := time.Now()
	if _, err = conn.Write(probePayload); err != nil && !errors.Is(err, unix.ECONNREFUSED) {
		return Hop{}, probe.NewError(probe.KindSocketFailure, "send probe",
			probe.WrapError(ctx, err, "failed sending UDP probe"))
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	packet, err := listener.Read(rctx)
	elapsed := probe.Millis(time.Since(start))

	// Order matters: the timeout is an expected outcome of a hop,
	// everything else is a socket failure.
	switch {
	case isTimeout(err) && ctx.Err() == nil:
		hop := Hop{TTL: ttl, Responder: NoResponse, RTTs: []float64{elapsed}}
		log.DebugContext(ctx, "Read timeout exceeded, no response received")
		span.AddEvent("ICMP read timeout exceeded", trace.WithAttributes(
			attribute.Stringer("traceroute.target.hop", hop),
		))
		return hop, nil
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Hop{}, ctxErr
		}
		return Hop{}, probe.NewError(probe.KindSocketFailure, "read reply",
			probe.WrapError(ctx, err, "failed to read ICMP message"))
	}

	hop := Hop{TTL: ttl, Responder: packet.responder.String(), RTTs: []float64{elapsed}}
	log.DebugContext(ctx, "Received ICMP message", "responder", hop.Responder)
	span.AddEvent("ICMP message received", trace.WithAttributes(
		attribute.Stringer("traceroute.target.hop", hop),
	))
	return hop, nil
}

// dialUDP sets up a UDP socket with the desired TTL towards the probe port of the given hop.
// The kernel picks an ephemeral local port and queues ICMP errors for this socket.
func dialUDP(ctx context.Context, dst net.IP, ttl int) (net.Conn, error) {
	dialer := net.Dialer{
		LocalAddr: &net.UDPAddr{Port: 0},
		ControlContext: func(_ context.Context, _, _ string, c syscall.RawConn) error {
			var opErr error
			if err := c.Control(func(fd uintptr) {
				opErr = errors.Join(
					unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TTL, ttl), // #nosec G115
					unix.SetsockoptInt(int(fd), unix.SOL_IP, unix.IP_RECVERR, 1),   // #nosec G115
				)
			}); err != nil {
				return err
			}
			return opErr
		},
	}

	addr := net.JoinHostPort(dst.String(), strconv.Itoa(basePort+ttl))
	return dialer.DialContext(ctx, "udp4", addr)
}
