// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"context"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/netprobe/internal/probe"
)

const linuxPingOutput = `PING 192.0.2.1 (192.0.2.1) 56(84) bytes of data.
64 bytes from 192.0.2.1: icmp_seq=1 ttl=57 time=12.3 ms
64 bytes from 192.0.2.1: icmp_seq=2 ttl=57 time=16.7 ms
64 bytes from 192.0.2.1: icmp_seq=3 ttl=57 time=14.5 ms
64 bytes from 192.0.2.1: icmp_seq=4 ttl=57 time=14.6 ms

--- 192.0.2.1 ping statistics ---
4 packets transmitted, 4 received, 0% packet loss, time 3004ms
rtt min/avg/max/mdev = 12.345/14.567/16.789/0.123 ms
`

func TestParsePingOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Measurement
		wantErr bool
	}{
		{
			name: "summary lines only",
			output: "4 packets transmitted, 4 received, 0% packet loss\n" +
				"rtt min/avg/max/mdev = 12.345/14.567/16.789/0.123 ms\n",
			want: Measurement{Sent: 4, Received: 4, LossPercent: 0, MinMs: 12.345, AvgMs: 14.567, MaxMs: 16.789},
		},
		{
			name:   "full linux output",
			output: linuxPingOutput,
			want:   Measurement{Sent: 4, Received: 4, LossPercent: 0, MinMs: 12.345, AvgMs: 14.567, MaxMs: 16.789},
		},
		{
			name: "bsd output with three values",
			output: "4 packets transmitted, 3 packets received, 25.0% packet loss\n" +
				"round-trip min/avg/max/stddev = 1.100/2.200/3.300/0.900 ms\n",
			want: Measurement{Sent: 4, Received: 3, LossPercent: 25, MinMs: 1.1, AvgMs: 2.2, MaxMs: 3.3},
		},
		{
			name: "busybox output",
			output: "4 packets transmitted, 2 packets received, 50% packet loss\n" +
				"round-trip min/avg/max = 0.500/0.750/1.000 ms\n",
			want: Measurement{Sent: 4, Received: 2, LossPercent: 50, MinMs: 0.5, AvgMs: 0.75, MaxMs: 1},
		},
		{
			name:   "total loss has no rtt line",
			output: "4 packets transmitted, 0 received, 100% packet loss, time 3060ms\n",
			want:   Measurement{Sent: 4, Received: 0, LossPercent: 100},
		},
		{
			name:    "empty output",
			output:  "",
			want:    Measurement{Sent: 4, Received: 0, LossPercent: 100},
			wantErr: true,
		},
		{
			name:    "missing rtt line with replies",
			output:  "4 packets transmitted, 4 received, 0% packet loss\n",
			want:    Measurement{Sent: 4, Received: 4, LossPercent: 0},
			wantErr: true,
		},
		{
			name: "malformed counts",
			output: "x packets transmitted, y received\n" +
				"rtt min/avg/max/mdev = 1.0/2.0/3.0/0.1 ms\n",
			want:    Measurement{Sent: 4, Received: 0, LossPercent: 100},
			wantErr: true,
		},
		{
			name: "malformed rtt values",
			output: "4 packets transmitted, 4 received, 0% packet loss\n" +
				"rtt min/avg/max/mdev = a/b/c/d ms\n",
			want:    Measurement{Sent: 4, Received: 4, LossPercent: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePingOutput(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, probe.ErrParseFailure)
			} else {
				require.NoError(t, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parsePingOutput() mismatch (-want +got):\n%s", diff)
			}
			assert.LessOrEqual(t, got.Received, got.Sent)
		})
	}
}

func TestProcessProber_ping(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		runErr     error
		wantErr    error
		wantSource Source
	}{
		{name: "success", output: linuxPingOutput, wantSource: SourceProcess},
		{name: "partial output", output: "garbage\n", wantErr: probe.ErrParseFailure, wantSource: SourceProcess},
		{name: "command not found", runErr: probe.NewError(probe.KindCommandFailed, "run ping", nil), wantErr: probe.ErrCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &probe.RunnerMock{
				RunFunc: func(_ context.Context, name string, args ...string) ([]byte, error) {
					return []byte(tt.output), tt.runErr
				},
			}
			p := newProcessProber(runner)

			m, err := p.ping(t.Context(), net.ParseIP("192.0.2.1"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantSource, m.Source)

			calls := runner.RunCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, "ping", calls[0].Name)
			assert.Equal(t, []string{"-c", "4", "192.0.2.1"}, calls[0].Args)
		})
	}
}
