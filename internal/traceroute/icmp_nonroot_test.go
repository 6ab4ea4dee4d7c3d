// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

var (
	_ net.Conn        = (*fakeConn)(nil)
	_ syscall.RawConn = (*fakeRawConn)(nil)
)

// fakeConn implements [net.Conn] with no-op methods.
type fakeConn struct {
	remote              net.Addr
	written             [][]byte
	writeErr            error
	closed              bool
	setReadDeadlineFunc func(t time.Time) error
}

func (f *fakeConn) Read(b []byte) (int, error) { return 0, nil }
func (f *fakeConn) Write(b []byte) (int, error) {
	f.written = append(f.written, b)
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(b), nil
}
func (f *fakeConn) Close() error                  { f.closed = true; return nil }
func (f *fakeConn) LocalAddr() net.Addr           { return &net.UDPAddr{} }
func (f *fakeConn) SetDeadline(t time.Time) error { return nil }
func (f *fakeConn) RemoteAddr() net.Addr {
	if f.remote != nil {
		return f.remote
	}
	return &net.UDPAddr{}
}
func (f *fakeConn) SetReadDeadline(t time.Time) error {
	if f.setReadDeadlineFunc != nil {
		return f.setReadDeadlineFunc(t)
	}
	return nil
}
func (f *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

// fakeRawConn implements [syscall.RawConn] for testing.
type fakeRawConn struct {
	readFunc func(func(fd uintptr) bool) error
}

func (f *fakeRawConn) Read(fn func(fd uintptr) bool) error  { return f.readFunc(fn) }
func (f *fakeRawConn) Control(fn func(fd uintptr)) error    { return nil }
func (f *fakeRawConn) Write(fn func(fd uintptr) bool) error { return nil }

// readOnce behaves like a socket that never becomes readable again
// after the first attempt did not complete.
func readOnce(fn func(fd uintptr) bool) error {
	if fn(0) {
		return nil
	}
	return os.ErrDeadlineExceeded
}

func newTestListener(conn *fakeConn) *errQueueListener {
	return &errQueueListener{
		conn:    conn,
		rawConn: &fakeRawConn{readFunc: readOnce},
		remote:  net.IPv4(192, 0, 2, 1).To4(),
		oobBuf:  make([]byte, oobBufSize),
		dataBuf: make([]byte, dataBufSize),
	}
}

func TestErrQueueListener_Read(t *testing.T) {
	routerPacket := &icmpPacket{responder: net.IPv4(10, 0, 0, 1).To4(), icmpType: uint8(ipv4.ICMPTypeTimeExceeded)}

	tests := []struct {
		name      string
		conn      *fakeConn
		recvMsg   func(calls int) (*socketMsg, error)
		parse     func(msg *socketMsg) (*icmpPacket, error)
		recvFrom  func(fd uintptr, data []byte, flags int) (net.IP, error)
		want      icmpPacket
		wantErr   bool
		wantErrIs error
	}{
		{
			name:    "time exceeded from the error queue",
			conn:    &fakeConn{},
			recvMsg: func(int) (*socketMsg, error) { return &socketMsg{}, nil },
			parse:   func(*socketMsg) (*icmpPacket, error) { return routerPacket, nil },
			want:    *routerPacket,
		},
		{
			name: "skips messages that do not answer the probe",
			conn: &fakeConn{},
			recvMsg: func(calls int) (*socketMsg, error) {
				return &socketMsg{oob: []byte{byte(calls)}}, nil
			},
			parse: func(msg *socketMsg) (*icmpPacket, error) {
				if msg.oob[0] == 1 {
					return nil, errSkip
				}
				return routerPacket, nil
			},
			want: *routerPacket,
		},
		{
			name:    "plain datagram when the error queue is empty",
			conn:    &fakeConn{},
			recvMsg: func(int) (*socketMsg, error) { return nil, unix.EAGAIN },
			recvFrom: func(uintptr, []byte, int) (net.IP, error) {
				return net.IPv4(192, 0, 2, 1).To4(), nil
			},
			want: icmpPacket{responder: net.IPv4(192, 0, 2, 1).To4()},
		},
		{
			name:    "connection refused means the destination answered",
			conn:    &fakeConn{},
			recvMsg: func(int) (*socketMsg, error) { return nil, unix.EAGAIN },
			recvFrom: func(uintptr, []byte, int) (net.IP, error) {
				return nil, unix.ECONNREFUSED
			},
			want: icmpPacket{
				responder: net.IPv4(192, 0, 2, 1).To4(),
				icmpType:  uint8(ipv4.ICMPTypeDestinationUnreachable),
				icmpCode:  icmpUnreachablePort,
			},
		},
		{
			name:    "deadline exceeded on empty queue",
			conn:    &fakeConn{},
			recvMsg: func(int) (*socketMsg, error) { return nil, unix.EAGAIN },
			recvFrom: func(uintptr, []byte, int) (net.IP, error) {
				return nil, unix.EAGAIN
			},
			wantErr:   true,
			wantErrIs: context.DeadlineExceeded,
		},
		{
			name:    "error while receiving socket message",
			conn:    &fakeConn{},
			recvMsg: func(int) (*socketMsg, error) { return nil, errors.New("failed to receive message") },
			wantErr: true,
		},
		{
			name: "error setting read deadline",
			conn: &fakeConn{setReadDeadlineFunc: func(time.Time) error {
				return errors.New("failed to set read deadline")
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origRecv, origParse, origFrom := recvMsg, parseExtendedErr, recvFrom
			defer func() { recvMsg, parseExtendedErr, recvFrom = origRecv, origParse, origFrom }()

			calls := 0
			recvMsg = func(uintptr, []byte, []byte, int) (*socketMsg, error) {
				calls++
				if tt.recvMsg == nil {
					t.Fatal("recvMsg must not be called")
				}
				return tt.recvMsg(calls)
			}
			if tt.parse != nil {
				parseExtendedErr = tt.parse
			}
			if tt.recvFrom != nil {
				recvFrom = tt.recvFrom
			}

			ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
			defer cancel()

			got, err := newTestListener(tt.conn).Read(ctx)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrQueueListener_Read_noDeadline(t *testing.T) {
	_, err := newTestListener(&fakeConn{}).Read(t.Context())
	assert.Error(t, err)
}

func TestNewErrQueueListener(t *testing.T) {
	t.Run("connection without syscall access", func(t *testing.T) {
		_, err := newErrQueueListener(&fakeConn{})
		assert.Error(t, err)
	})

	t.Run("udp connection", func(t *testing.T) {
		conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: basePort + 1})
		require.NoError(t, err)

		l, err := newErrQueueListener(conn)
		require.NoError(t, err)
		eql := l.(*errQueueListener)
		assert.Equal(t, net.IPv4(127, 0, 0, 1).To4(), eql.remote.To4())
		assert.NoError(t, l.Close())
	})
}

func Test_parseExtendedErr(t *testing.T) {
	router := net.IPv4(192, 168, 1, 1).To4()

	tests := []struct {
		name     string
		origin   uint8
		icmpType uint8
		icmpCode uint8
		offender net.IP
		wantSkip bool
		wantErr  bool
	}{
		{
			name:     "time exceeded",
			origin:   unix.SO_EE_ORIGIN_ICMP,
			icmpType: uint8(ipv4.ICMPTypeTimeExceeded),
			offender: router,
		},
		{
			name:     "destination unreachable - port unreachable",
			origin:   unix.SO_EE_ORIGIN_ICMP,
			icmpType: uint8(ipv4.ICMPTypeDestinationUnreachable),
			icmpCode: icmpUnreachablePort,
			offender: router,
		},
		{
			name:     "unexpected ICMP type",
			origin:   unix.SO_EE_ORIGIN_ICMP,
			icmpType: 99,
			offender: router,
			wantSkip: true,
		},
		{
			name:     "locally generated error",
			origin:   unix.SO_EE_ORIGIN_LOCAL,
			offender: router,
			wantSkip: true,
		},
		{
			name:     "missing offender address",
			origin:   unix.SO_EE_ORIGIN_ICMP,
			icmpType: uint8(ipv4.ICMPTypeTimeExceeded),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &socketMsg{oob: newExtendedErrOOB(tt.origin, tt.icmpType, tt.icmpCode, tt.offender)}

			got, err := parseExtendedErr(msg)

			switch {
			case tt.wantSkip:
				assert.ErrorIs(t, err, errSkip)
				assert.Nil(t, got)
			case tt.wantErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, errSkip)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, &icmpPacket{
					responder: tt.offender,
					icmpType:  tt.icmpType,
					icmpCode:  tt.icmpCode,
				}, got)
			}
		})
	}
}

func Test_parseExtendedErr_Errors(t *testing.T) {
	t.Run("short extended error data", func(t *testing.T) {
		msg := &socketMsg{oob: newControlMessage(unix.SOL_IP, unix.IP_RECVERR, []byte{0x01, 0x02, 0x03})}

		_, err := parseExtendedErr(msg)
		assert.Error(t, err)
	})

	t.Run("no IP_RECVERR message", func(t *testing.T) {
		msg := &socketMsg{oob: newControlMessage(unix.SOL_SOCKET, unix.SO_TIMESTAMP, make([]byte, 16))}

		_, err := parseExtendedErr(msg)
		assert.ErrorIs(t, err, errSkip)
	})

	t.Run("empty OOB data", func(t *testing.T) {
		_, err := parseExtendedErr(&socketMsg{oob: []byte{}})
		assert.Error(t, err)
	})
}

func Test_newSockExtendedErr(t *testing.T) {
	t.Run("valid data", func(t *testing.T) {
		data := make([]byte, minExtendedErrSize)
		binary.NativeEndian.PutUint32(data[0:4], 1)
		data[4], data[5], data[6] = 2, 11, 3
		binary.NativeEndian.PutUint32(data[8:12], 0x1234)
		binary.NativeEndian.PutUint32(data[12:16], 0x5678)

		got, err := newSockExtendedErr(data)

		assert.NoError(t, err)
		assert.Equal(t, unix.SockExtendedErr{
			Errno:  1,
			Origin: 2,
			Type:   11,
			Code:   3,
			Info:   0x1234,
			Data:   0x5678,
		}, got)
	})

	t.Run("data too short (only 3 bytes)", func(t *testing.T) {
		_, err := newSockExtendedErr([]byte{0x01, 0x02, 0x03})
		assert.Error(t, err)
	})

	t.Run("minimum size with all zeros", func(t *testing.T) {
		got, err := newSockExtendedErr(make([]byte, minExtendedErrSize))

		assert.NoError(t, err)
		assert.Equal(t, unix.SockExtendedErr{}, got)
	})
}

func Test_offenderAddr(t *testing.T) {
	t.Run("IPv4 offender", func(t *testing.T) {
		data := newExtendedErrData(unix.SO_EE_ORIGIN_ICMP, 11, 0, net.IPv4(10, 1, 2, 3))

		got, err := offenderAddr(data)

		require.NoError(t, err)
		assert.Equal(t, net.IPv4(10, 1, 2, 3).To4(), got)
	})

	t.Run("foreign address family", func(t *testing.T) {
		data := newExtendedErrData(unix.SO_EE_ORIGIN_ICMP, 11, 0, net.IPv4(10, 1, 2, 3))
		binary.NativeEndian.PutUint16(data[minExtendedErrSize:], unix.AF_INET6)

		_, err := offenderAddr(data)
		assert.ErrorIs(t, err, errSkip)
	})
}

func Test_recvMsg(t *testing.T) {
	origUnixRecvMsg := unixRecvMsg
	defer func() { unixRecvMsg = origUnixRecvMsg }()

	t.Run("control data is returned", func(t *testing.T) {
		mockOob := []byte{0x01, 0x02, 0x03, 0x04}
		unixRecvMsg = func(fd int, p, oob []byte, flags int) (n, oobn, recvflags int, from unix.Sockaddr, err error) {
			assert.Equal(t, 123, fd)
			assert.Equal(t, unix.MSG_ERRQUEUE, flags)
			copy(oob, mockOob)
			return 1, len(mockOob), 0, &unix.SockaddrInet4{}, nil
		}

		got, err := recvMsg(123, make([]byte, dataBufSize), make([]byte, oobBufSize), unix.MSG_ERRQUEUE)

		require.NoError(t, err)
		assert.Equal(t, mockOob, got.oob)
	})

	t.Run("unix.Recvmsg returns error", func(t *testing.T) {
		unixRecvMsg = func(fd int, p, oob []byte, flags int) (n, oobn, recvflags int, from unix.Sockaddr, err error) {
			return 0, 0, 0, nil, unix.EAGAIN
		}

		got, err := recvMsg(456, make([]byte, dataBufSize), make([]byte, oobBufSize), unix.MSG_ERRQUEUE)

		assert.ErrorIs(t, err, unix.EAGAIN)
		assert.Nil(t, got)
	})
}

func Test_recvFrom(t *testing.T) {
	origUnixRecvfrom := unixRecvfrom
	defer func() { unixRecvfrom = origUnixRecvfrom }()

	t.Run("IPv4 sender", func(t *testing.T) {
		unixRecvfrom = func(fd int, p []byte, flags int) (int, unix.Sockaddr, error) {
			return 1, &unix.SockaddrInet4{Port: 33435, Addr: [4]byte{192, 0, 2, 1}}, nil
		}

		got, err := recvFrom(1, make([]byte, dataBufSize), unix.MSG_DONTWAIT)

		require.NoError(t, err)
		assert.Equal(t, net.IPv4(192, 0, 2, 1).To4(), got)
	})

	t.Run("unexpected sender", func(t *testing.T) {
		unixRecvfrom = func(fd int, p []byte, flags int) (int, unix.Sockaddr, error) {
			return 1, &unix.SockaddrInet6{}, nil
		}

		_, err := recvFrom(1, make([]byte, dataBufSize), unix.MSG_DONTWAIT)
		assert.ErrorIs(t, err, errSkip)
	})

	t.Run("error", func(t *testing.T) {
		unixRecvfrom = func(fd int, p []byte, flags int) (int, unix.Sockaddr, error) {
			return 0, nil, unix.ECONNREFUSED
		}

		_, err := recvFrom(1, make([]byte, dataBufSize), unix.MSG_DONTWAIT)
		assert.ErrorIs(t, err, unix.ECONNREFUSED)
	})
}

// newExtendedErrData creates a sock_extended_err followed by the offender's sockaddr_in.
// A nil offender leaves the address out.
func newExtendedErrData(origin, icmpType, icmpCode uint8, offender net.IP) []byte {
	data := make([]byte, minExtendedErrSize)
	data[4], data[5], data[6] = origin, icmpType, icmpCode
	if offender == nil {
		return data
	}

	sa := make([]byte, offenderAddrSize)
	binary.NativeEndian.PutUint16(sa[0:2], unix.AF_INET)
	copy(sa[4:8], offender.To4())
	return append(data, sa...)
}

// newExtendedErrOOB creates OOB data with an IP_RECVERR control message containing an extended error.
func newExtendedErrOOB(origin, icmpType, icmpCode uint8, offender net.IP) []byte {
	return newControlMessage(unix.SOL_IP, unix.IP_RECVERR, newExtendedErrData(origin, icmpType, icmpCode, offender))
}

// newControlMessage creates a control message with given level, type and data
func newControlMessage(level, msgType int, data []byte) []byte {
	buf := make([]byte, unix.CmsgSpace(len(data)))

	hdr := (*unix.Cmsghdr)(unsafe.Pointer(&buf[0]))
	hdr.SetLen(unix.CmsgLen(len(data)))
	hdr.Level = int32(level)
	hdr.Type = int32(msgType)

	copy(buf[unix.CmsgLen(0):], data)
	return buf
}
