// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/internal/probe"
)

// tracerouteBinaries are the well-known locations of the system traceroute utility.
var tracerouteBinaries = []string{"/usr/bin/traceroute", "/bin/traceroute"}

// bannerPrefix starts the header line printed by the traceroute utility.
const bannerPrefix = "traceroute"

// processTracer runs the system traceroute utility and parses its per-hop lines.
type processTracer struct {
	runner probe.Runner
}

// run executes "<binary> -n -w 2 <ip>" and parses the output.
// A partially parsed output is returned together with a [probe.ErrParseFailure].
func (p *processTracer) run(ctx context.Context, binary string, ip net.IP) ([]Hop, error) {
	log := logger.FromContext(ctx)

	waitSeconds := strconv.Itoa(int(hopTimeout.Seconds()))
	out, err := p.runner.Run(ctx, binary, "-n", "-w", waitSeconds, ip.String())
	if err != nil {
		return nil, probe.WrapError(ctx, err, "failed to run %s", binary)
	}

	hops, err := parseTracerouteOutput(string(out))
	if err != nil {
		log.WarnContext(ctx, "Traceroute output only partially parsed", "error", err)
	}
	return hops, err
}

// parseTracerouteOutput parses numeric traceroute output:
//
//	traceroute to 192.0.2.1 (192.0.2.1), 30 hops max, 60 byte packets
//	 1  192.168.1.1  1.234 ms  1.567 ms  1.890 ms
//	 2  * * *
//
// Lines without a leading hop number are skipped, as are hop numbers that
// do not increase. Latencies are accepted as "1.234ms" or "1.234 ms".
func parseTracerouteOutput(output string) ([]Hop, error) {
	hops := []Hop{}
	last := 0

	for line := range strings.Lines(output) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, bannerPrefix) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ttl, err := strconv.Atoi(fields[0])
		if err != nil || ttl <= last || ttl > maxHops {
			continue
		}
		last = ttl

		hops = append(hops, Hop{
			TTL:       ttl,
			Responder: fields[1],
			RTTs:      parseLatencies(fields[2:]),
		})
	}

	if len(hops) == 0 {
		return hops, probe.NewError(probe.KindParseFailure, "parse traceroute output", errors.New("no hop lines found"))
	}
	return hops, nil
}

// parseLatencies collects every numeric token that is suffixed by "ms" or followed by an "ms" token.
func parseLatencies(tokens []string) []float64 {
	rtts := []float64{}
	for i, tok := range tokens {
		value, ok := strings.CutSuffix(tok, "ms")
		if !ok {
			if i+1 >= len(tokens) || tokens[i+1] != "ms" {
				continue
			}
			value = tok
		}
		if rtt, err := strconv.ParseFloat(value, 64); err == nil {
			rtts = append(rtts, rtt)
		}
	}
	return rtts
}
