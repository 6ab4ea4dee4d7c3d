// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/probe"
)

var _ prober = (*processProber)(nil)

// pingCommand is the system ping utility, looked up in PATH.
const pingCommand = "ping"

// processProber runs the system ping command and parses its summary.
// It is used when the process may not open raw sockets.
type processProber struct {
	runner probe.Runner
}

func newProcessProber(runner probe.Runner) *processProber {
	return &processProber{runner: runner}
}

// ping runs "ping -c 4 <ip>" and parses the output.
// If the output lacks expected lines, the best-effort [Measurement] is returned
// together with a [probe.ErrParseFailure].
func (p *processProber) ping(ctx context.Context, ip net.IP) (Measurement, error) {
	log := logger.FromContext(ctx)

	out, err := p.runner.Run(ctx, pingCommand, "-c", strconv.Itoa(probeCount), ip.String())
	if err != nil {
		return Measurement{}, probe.WrapError(ctx, err, "failed to run %s", pingCommand)
	}

	m, err := parsePingOutput(string(out))
	if err != nil {
		log.WarnContext(ctx, "Ping output only partially parsed", "error", err)
	}
	m.Source = SourceProcess
	return m, err
}

// parsePingOutput extracts the transmitted/received counts and the
// min/avg/max round-trip times from the summary of a ping run:
//
//	4 packets transmitted, 4 received, 0% packet loss, time 3004ms
//	rtt min/avg/max/mdev = 12.345/14.567/16.789/0.123 ms
//
// Missing lines leave their fields at the defaults (sent=4, received=0,
// latencies 0) and are reported as [probe.ErrParseFailure].
func parsePingOutput(output string) (Measurement, error) {
	m := Measurement{Sent: probeCount}
	var errs []error
	countsFound, rttFound := false, false

	for line := range strings.Lines(output) {
		switch {
		case strings.Contains(line, "packets transmitted"):
			sent, received, err := parseCounts(line)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			m.Sent, m.Received, countsFound = sent, received, true
		case strings.Contains(line, "min/avg/max"):
			minMs, avgMs, maxMs, err := parseRTT(line)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			m.MinMs, m.AvgMs, m.MaxMs, rttFound = minMs, avgMs, maxMs, true
		}
	}

	if !countsFound {
		errs = append(errs, errors.New(`no "packets transmitted" summary found`))
	}
	// ping prints no round-trip line when nothing came back.
	if !rttFound && (!countsFound || m.Received > 0) {
		errs = append(errs, errors.New(`no "min/avg/max" line found`))
	}

	if m.Sent <= 0 {
		m.Sent = probeCount
	}
	m.Received = max(0, min(m.Received, m.Sent))
	m.LossPercent = lossPercent(m.Sent, m.Received)
	if m.Received == 0 {
		m.MinMs, m.AvgMs, m.MaxMs = 0, 0, 0
	}

	if len(errs) > 0 {
		return m, probe.NewError(probe.KindParseFailure, "parse ping output", errors.Join(errs...))
	}
	return m, nil
}

// parseCounts reads the leading integers of the first two comma separated fields.
func parseCounts(line string) (sent, received int, err error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("malformed packet summary: %q", strings.TrimSpace(line))
	}
	if sent, err = leadingInt(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("malformed transmitted count: %w", err)
	}
	if received, err = leadingInt(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("malformed received count: %w", err)
	}
	return sent, received, nil
}

func leadingInt(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, errors.New("empty field")
	}
	return strconv.Atoi(fields[0])
}

// parseRTT reads the first three slash separated values after the "=" sign.
func parseRTT(line string) (minMs, avgMs, maxMs float64, err error) {
	_, stats, ok := strings.Cut(line, "=")
	if !ok {
		return 0, 0, 0, fmt.Errorf("malformed round-trip line: %q", strings.TrimSpace(line))
	}
	fields := strings.Fields(stats)
	if len(fields) == 0 {
		return 0, 0, 0, fmt.Errorf("malformed round-trip line: %q", strings.TrimSpace(line))
	}

	values := strings.Split(fields[0], "/")
	if len(values) < 3 {
		return 0, 0, 0, fmt.Errorf("expected at least 3 round-trip values, got %d", len(values))
	}

	parsed := make([]float64, 3)
	for i := range parsed {
		if parsed[i], err = strconv.ParseFloat(values[i], 64); err != nil {
			return 0, 0, 0, fmt.Errorf("malformed round-trip value %q: %w", values[i], err)
		}
	}
	return parsed[0], parsed[1], parsed[2], nil
}
