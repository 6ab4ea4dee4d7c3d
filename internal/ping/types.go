// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"slices"
	"time"
)

const (
	// probeCount is the number of echo requests sent per run.
	probeCount = 4
	// probeInterval is the pause between two echo requests.
	probeInterval = 500 * time.Millisecond
	// replyTimeout bounds the wait for a single echo reply.
	replyTimeout = time.Second
)

// Source names the strategy that produced a [Measurement].
type Source string

const (
	// SourceICMP is a measurement taken over a raw ICMP socket.
	SourceICMP Source = "icmp"
	// SourceProcess is a measurement parsed from the system ping command.
	SourceProcess Source = "process"
)

// Measurement is the result of one ping run.
// The latency fields are zero when nothing was received.
type Measurement struct {
	Sent        int     `json:"sent" yaml:"sent"`
	Received    int     `json:"received" yaml:"received"`
	LossPercent float64 `json:"lossPercent" yaml:"lossPercent"`
	MinMs       float64 `json:"minMs" yaml:"minMs"`
	AvgMs       float64 `json:"avgMs" yaml:"avgMs"`
	MaxMs       float64 `json:"maxMs" yaml:"maxMs"`
	Source      Source  `json:"source" yaml:"source"`
}

// newMeasurement computes loss and min/avg/max over the successful round-trip times.
func newMeasurement(sent int, rtts []float64, src Source) Measurement {
	m := Measurement{
		Sent:        sent,
		Received:    len(rtts),
		LossPercent: lossPercent(sent, len(rtts)),
		Source:      src,
	}
	if len(rtts) == 0 {
		return m
	}

	var sum float64
	for _, rtt := range rtts {
		sum += rtt
	}
	m.MinMs = slices.Min(rtts)
	m.MaxMs = slices.Max(rtts)
	// Rounding must never push the mean outside [min, max].
	m.AvgMs = min(max(sum/float64(len(rtts)), m.MinMs), m.MaxMs)
	return m
}

func lossPercent(sent, received int) float64 {
	if sent <= 0 {
		return 0
	}
	return float64(sent-received) / float64(sent) * 100
}
