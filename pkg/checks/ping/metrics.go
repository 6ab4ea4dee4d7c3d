// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/netprobe/internal/ping"
)

// metrics defines the metric collectors of the ping check
type metrics struct {
	rtt      *prometheus.GaugeVec
	loss     *prometheus.GaugeVec
	received *prometheus.GaugeVec
	count    *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the ping check
func newMetrics() metrics {
	return metrics{
		rtt: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netprobe_ping_rtt_seconds",
				Help: "Round-trip time of the echo replies in seconds, by statistic (min, avg, max).",
			},
			[]string{"target", "stat"},
		),
		loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netprobe_ping_loss_percent",
				Help: "Percentage of echo requests that were not answered.",
			},
			[]string{"target"},
		),
		received: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netprobe_ping_received_packets",
				Help: "Number of echo replies received.",
			},
			[]string{"target"},
		),
		count: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netprobe_ping_check_count",
				Help: "Total number of ping checks performed on the target, by the strategy that produced the result.",
			},
			[]string{"target", "source"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rtt,
		m.loss,
		m.received,
		m.count,
	}
}

// Set sets the metrics of one ping measurement.
// Latencies are only set if at least one reply was received.
func (m *metrics) Set(target string, res ping.Measurement) {
	m.loss.WithLabelValues(target).Set(res.LossPercent)
	m.received.WithLabelValues(target).Set(float64(res.Received))
	m.count.WithLabelValues(target, string(res.Source)).Inc()
	if res.Received == 0 {
		return
	}
	m.rtt.WithLabelValues(target, "min").Set(res.MinMs / 1000)
	m.rtt.WithLabelValues(target, "avg").Set(res.AvgMs / 1000)
	m.rtt.WithLabelValues(target, "max").Set(res.MaxMs / 1000)
}
