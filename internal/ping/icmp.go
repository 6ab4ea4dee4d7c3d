// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"time"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/probe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"
)

var _ prober = (*rawProber)(nil)

const (
	// mtuSize is the size of the receive buffer for ICMP replies.
	mtuSize = 1500
	// sessionIDRange is the exclusive upper bound of the echo identifier.
	sessionIDRange = 1 << 16
)

// payload is carried by every echo request.
var payload = []byte("netprobe")

// icmpConn is the subset of [icmp.PacketConn] used by the raw prober.
type icmpConn interface {
	WriteTo(b []byte, dst net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// family holds the per IP version parameters of an ICMP echo exchange.
type family struct {
	network string
	address string
	proto   int
	request icmp.Type
	reply   icmp.Type
}

var (
	familyV4 = family{
		network: "ip4:icmp",
		address: "0.0.0.0",
		proto:   ipv4.ICMPTypeEchoReply.Protocol(),
		request: ipv4.ICMPTypeEcho,
		reply:   ipv4.ICMPTypeEchoReply,
	}
	familyV6 = family{
		network: "ip6:ipv6-icmp",
		address: "::",
		proto:   ipv6.ICMPTypeEchoReply.Protocol(),
		request: ipv6.ICMPTypeEchoRequest,
		reply:   ipv6.ICMPTypeEchoReply,
	}
)

func familyOf(ip net.IP) family {
	if ip.To4() != nil {
		return familyV4
	}
	return familyV6
}

// rawProber sends ICMP echo requests over a raw socket.
// It requires NET_RAW capabilities to open the socket.
type rawProber struct {
	// listen opens the raw ICMP socket.
	listen func(network, address string) (icmpConn, error)
	// interval is the pause between two echo requests.
	interval time.Duration
	// replyTimeout bounds the wait for a single reply.
	replyTimeout time.Duration
}

func newRawProber() *rawProber {
	return &rawProber{
		listen:       listenICMP,
		interval:     probeInterval,
		replyTimeout: replyTimeout,
	}
}

func listenICMP(network, address string) (icmpConn, error) {
	conn, err := icmp.ListenPacket(network, address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// ping sends [probeCount] echo requests to ip and computes the [Measurement].
// Unanswered requests count as loss. A failure to open the socket because of
// missing privileges is reported as [probe.ErrPermissionDenied].
func (p *rawProber) ping(ctx context.Context, ip net.IP) (Measurement, error) {
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	fam := familyOf(ip)

	conn, err := p.listen(fam.network, fam.address)
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			log.DebugContext(ctx, "No permission to open raw ICMP socket", "error", err)
			return Measurement{}, probe.NewError(probe.KindPermissionDenied, "open icmp socket", err)
		}
		return Measurement{}, probe.WrapError(ctx, probe.NewError(probe.KindSocketFailure, "open icmp socket", err), "failed to open ICMP socket")
	}
	defer func() { _ = conn.Close() }()

	// The identifier lives for this run only and ties every reply to it.
	id := rand.N(sessionIDRange) // #nosec G404 // not used for anything security related
	dst := &net.IPAddr{IP: ip}
	rtts := make([]float64, 0, probeCount)

	for seq := range probeCount {
		if seq > 0 {
			select {
			case <-ctx.Done():
				return Measurement{}, ctx.Err()
			case <-time.After(p.interval):
			}
		}

		rtt, ok, err := p.echo(ctx, conn, fam, dst, id, seq)
		if err != nil {
			return Measurement{}, probe.WrapError(ctx, err, "failed to ping %s", ip)
		}
		if !ok {
			log.DebugContext(ctx, "Echo request unanswered", "seq", seq, "id", id)
			span.AddEvent("Echo request unanswered", trace.WithAttributes(attribute.Int("ping.seq", seq)))
			continue
		}
		log.DebugContext(ctx, "Echo reply received", "seq", seq, "id", id, "rttMs", rtt)
		span.AddEvent("Echo reply received", trace.WithAttributes(
			attribute.Int("ping.seq", seq),
			attribute.Float64("ping.rtt_ms", rtt),
		))
		rtts = append(rtts, rtt)
	}

	return newMeasurement(probeCount, rtts, SourceICMP), nil
}

// echo sends a single echo request and waits for its reply.
// It returns false without an error if no matching reply arrived in time.
func (p *rawProber) echo(ctx context.Context, conn icmpConn, fam family, dst net.Addr, id, seq int) (float64, bool, error) {
	log := logger.FromContext(ctx)
	msg := icmp.Message{
		Type: fam.request,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: payload},
	}
	b, err := msg.Marshal(nil)
	if err != nil {
		return 0, false, probe.NewError(probe.KindSocketFailure, "marshal echo request", err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(b, dst); err != nil {
		return 0, false, probe.NewError(probe.KindSocketFailure, "send echo request", err)
	}

	deadline := start.Add(p.replyTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, false, probe.NewError(probe.KindSocketFailure, "set read deadline", err)
	}

	buf := make([]byte, mtuSize)
	for {
		n, src, err := conn.ReadFrom(buf)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, probe.NewError(probe.KindSocketFailure, "receive echo reply", err)
		}

		if err := matchReply(fam, buf[:n], id, seq); err != nil {
			log.DebugContext(ctx, "Ignoring ICMP message", "from", src, "reason", err)
			continue
		}
		return probe.Millis(time.Since(start)), true, nil
	}
}

// matchReply returns nil if b is the echo reply for the given identifier and sequence.
func matchReply(fam family, b []byte, id, seq int) error {
	msg, err := icmp.ParseMessage(fam.proto, b)
	if err != nil {
		return fmt.Errorf("failed to parse ICMP message: %w", err)
	}
	if msg.Type != fam.reply {
		return fmt.Errorf("unexpected ICMP message type: %v", msg.Type)
	}
	echo, ok := msg.Body.(*icmp.Echo)
	if !ok {
		return fmt.Errorf("unexpected ICMP body: %T", msg.Body)
	}
	if echo.ID != id || echo.Seq != seq {
		return fmt.Errorf("echo reply for id %d seq %d", echo.ID, echo.Seq)
	}
	return nil
}
