// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/telekom/netprobe/internal/logger"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

var _ icmpListener = (*errQueueListener)(nil)

// errQueueListener reads the reply to a hop probe from a UDP socket.
// ICMP errors caused by the probe are taken from the socket error queue, which
// requires IP_RECVERR on the socket. A plain datagram delivered to the socket
// counts as a reply too.
type errQueueListener struct {
	conn    net.Conn
	rawConn syscall.RawConn
	// remote is the probed destination, used when the kernel only reports
	// a connection error without an offender address.
	remote  net.IP
	oobBuf  []byte
	dataBuf []byte
}

const (
	// oobBufSize is the size of the out-of-band buffer used for receiving extended error messages.
	oobBufSize = 512
	// dataBufSize is the size of the data buffer used for receiving messages.
	dataBufSize = 512
	// minExtendedErrSize is the size of struct sock_extended_err as defined in the Linux kernel:
	// https://man7.org/linux/man-pages/man7/ip.7.html
	minExtendedErrSize = 16
	// offenderAddrSize is the size of the sockaddr_in that follows sock_extended_err.
	offenderAddrSize = 16
)

// errSkip marks queued messages that do not answer the probe.
var errSkip = errors.New("message does not answer the probe")

// newErrQueueListener wraps a UDP connection in an errQueueListener.
func newErrQueueListener(conn net.Conn) (icmpListener, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("the provided connection does not implement syscall.Conn: %T", conn)
	}

	rc, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("failed to get RawConn: %w", err)
	}

	return &errQueueListener{
		conn:    conn,
		rawConn: rc,
		remote:  remoteIPv4(conn.RemoteAddr()),
		oobBuf:  make([]byte, oobBufSize),
		dataBuf: make([]byte, dataBufSize),
	}, nil
}

// Read waits until a reply to the probe arrives or the context deadline is exceeded.
func (l *errQueueListener) Read(ctx context.Context) (icmpPacket, error) {
	log := logger.FromContext(ctx)
	deadline, ok := ctx.Deadline()
	if !ok || deadline.IsZero() {
		return icmpPacket{}, errors.New("no deadline set for reading the probe reply")
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return icmpPacket{}, fmt.Errorf("failed to set read deadline: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return icmpPacket{}, ctx.Err()
		default:
		}

		pkt, err := l.recvPacket()
		switch {
		case errors.Is(err, errSkip):
			log.DebugContext(ctx, "Ignoring queued message", "reason", err)
			continue
		case isTimeout(err):
			return icmpPacket{}, context.DeadlineExceeded
		case err != nil:
			return icmpPacket{}, err
		}
		log.DebugContext(ctx, "Received probe reply", "responder", pkt.responder, "type", pkt.icmpType, "code", pkt.icmpCode)
		return *pkt, nil
	}
}

// recvPacket waits until the socket is readable and receives one message.
func (l *errQueueListener) recvPacket() (*icmpPacket, error) {
	var pkt *icmpPacket
	var opErr error
	err := l.rawConn.Read(func(fd uintptr) bool {
		pkt, opErr = l.recv(fd)
		// Nothing queued yet: keep waiting for the socket to become readable.
		return !errors.Is(opErr, unix.EAGAIN)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read from raw connection: %w", err)
	}
	return pkt, opErr
}

// recv performs a non-blocking read of the error queue, then of the regular receive queue.
func (l *errQueueListener) recv(fd uintptr) (*icmpPacket, error) {
	msg, err := recvMsg(fd, l.dataBuf, l.oobBuf, unix.MSG_ERRQUEUE|unix.MSG_DONTWAIT)
	if err == nil {
		return parseExtendedErr(msg)
	}
	if !errors.Is(err, unix.EAGAIN) {
		return nil, fmt.Errorf("failed to read socket error queue: %w", err)
	}

	from, err := recvFrom(fd, l.dataBuf, unix.MSG_DONTWAIT)
	switch {
	case err == nil:
		return &icmpPacket{responder: from}, nil
	case errors.Is(err, unix.ECONNREFUSED):
		// The error was reported on the socket but not queued: the destination refused the port.
		return &icmpPacket{
			responder: l.remote,
			icmpType:  uint8(ipv4.ICMPTypeDestinationUnreachable),
			icmpCode:  icmpUnreachablePort,
		}, nil
	default:
		return nil, err
	}
}

// Close closes the underlying [net.Conn].
func (l *errQueueListener) Close() error {
	return l.conn.Close()
}

// socketMsg represents a message received from the socket error queue.
type socketMsg struct {
	// oob is the out-of-band data received with the message.
	// This contains the extended error information from the kernel.
	oob []byte
}

// unixRecvMsg is a wrapper around the [unix.Recvmsg] function.
// It allows us to mock the function in tests.
var unixRecvMsg = unix.Recvmsg

// recvMsg receives a message and its control data from the socket.
var recvMsg = func(fd uintptr, data, oob []byte, flags int) (*socketMsg, error) {
	_, oobn, _, _, err := unixRecvMsg(int(fd), data, oob, flags)
	if err != nil {
		return nil, err
	}
	return &socketMsg{oob: oob[:oobn]}, nil
}

// unixRecvfrom is a wrapper around the [unix.Recvfrom] function.
// It allows us to mock the function in tests.
var unixRecvfrom = unix.Recvfrom

// recvFrom receives a plain datagram and returns the sender's address.
var recvFrom = func(fd uintptr, data []byte, flags int) (net.IP, error) {
	_, from, err := unixRecvfrom(int(fd), data, flags)
	if err != nil {
		return nil, err
	}
	if sa, ok := from.(*unix.SockaddrInet4); ok {
		return net.IP(sa.Addr[:]).To4(), nil
	}
	return nil, fmt.Errorf("%w: unexpected sender address %T", errSkip, from)
}

// parseExtendedErr decodes SOL_IP / IP_RECVERR control messages for both TimeExceeded and DestinationUnreachable.
var parseExtendedErr = func(msg *socketMsg) (*icmpPacket, error) {
	cms, err := unix.ParseSocketControlMessage(msg.oob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse control messages: %w", err)
	}

	for _, cm := range cms {
		if cm.Header.Level != unix.SOL_IP || cm.Header.Type != unix.IP_RECVERR {
			continue
		}

		ee, err := newSockExtendedErr(cm.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode extended error: %w", err)
		}
		if ee.Origin != unix.SO_EE_ORIGIN_ICMP {
			return nil, fmt.Errorf("%w: error origin %d", errSkip, ee.Origin)
		}

		timeExceeded := ee.Type == uint8(ipv4.ICMPTypeTimeExceeded)
		destUnreachable := ee.Type == uint8(ipv4.ICMPTypeDestinationUnreachable)
		if !timeExceeded && !destUnreachable {
			return nil, fmt.Errorf("%w: unexpected ICMP type %d with code %d", errSkip, ee.Type, ee.Code)
		}

		offender, err := offenderAddr(cm.Data)
		if err != nil {
			return nil, err
		}
		return &icmpPacket{responder: offender, icmpType: ee.Type, icmpCode: ee.Code}, nil
	}

	return nil, fmt.Errorf("%w: no SOL_IP/IP_RECVERR message found", errSkip)
}

// newSockExtendedErr converts the first 16 bytes of an OOB buffer into a [unix.SockExtendedErr].
func newSockExtendedErr(data []byte) (unix.SockExtendedErr, error) {
	if len(data) < minExtendedErrSize {
		return unix.SockExtendedErr{}, fmt.Errorf("extended error too short: %d bytes", len(data))
	}

	return unix.SockExtendedErr{
		Errno:  binary.NativeEndian.Uint32(data[0:4]),
		Origin: data[4],
		Type:   data[5],
		Code:   data[6],
		Info:   binary.NativeEndian.Uint32(data[8:12]),
		Data:   binary.NativeEndian.Uint32(data[12:16]),
	}, nil
}

// offenderAddr reads the sockaddr_in of the node that sent the ICMP error (SO_EE_OFFENDER).
func offenderAddr(data []byte) (net.IP, error) {
	if len(data) < minExtendedErrSize+offenderAddrSize {
		return nil, fmt.Errorf("extended error without offender address: %d bytes", len(data))
	}
	sa := data[minExtendedErrSize:]
	if family := binary.NativeEndian.Uint16(sa[0:2]); family != unix.AF_INET {
		return nil, fmt.Errorf("%w: unsupported offender address family %d", errSkip, family)
	}
	return net.IPv4(sa[4], sa[5], sa[6], sa[7]).To4(), nil
}
