// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"strings"
	"time"
)

const (
	// maxHops is the highest TTL probed.
	maxHops = 30
	// hopTimeout bounds the wait for the reply to a single hop probe.
	hopTimeout = 2 * time.Second
	// basePort is the destination port base; the probe for TTL n goes to basePort+n.
	basePort = 33434
	// NoResponse is the responder address of a hop that did not answer in time.
	NoResponse = "*"
)

// Source names the strategy that produced a [Result].
type Source string

const (
	// SourceUDP is a result of the built-in UDP traceroute.
	SourceUDP Source = "udp"
	// SourceProcess is a result parsed from the system traceroute binary.
	SourceProcess Source = "process"
)

// Hop is a single network hop discovered by a traceroute.
type Hop struct {
	// TTL is the 1-based hop index.
	TTL int `json:"ttl" yaml:"ttl"`
	// Responder is the dotted-quad address that answered, or [NoResponse].
	Responder string `json:"responder" yaml:"responder"`
	// RTTs are the round-trip times in milliseconds recorded for this hop.
	// The UDP traceroute records one value per hop, even on timeout.
	RTTs []float64 `json:"rttsMs" yaml:"rttsMs"`
}

func (h Hop) String() string {
	times := make([]string, 0, len(h.RTTs))
	for _, rtt := range h.RTTs {
		times = append(times, fmt.Sprintf("%.2f ms", rtt))
	}
	return strings.TrimRight(fmt.Sprintf("%2d  %-15s  %s", h.TTL, h.Responder, strings.Join(times, "  ")), " ")
}

// Result is the ordered list of hops towards a target.
type Result struct {
	// Target is the traced address.
	Target string `json:"target" yaml:"target"`
	// Hops are ordered by TTL.
	Hops []Hop `json:"hops" yaml:"hops"`
	// Source is the strategy that produced the hops.
	Source Source `json:"source" yaml:"source"`
}

// Reached reports whether the last hop is the target itself.
func (r Result) Reached() bool {
	return len(r.Hops) > 0 && r.Hops[len(r.Hops)-1].Responder == r.Target
}
