// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/netprobe/internal/traceroute"
)

// metrics defines the metric collectors of the traceroute check
type metrics struct {
	hops    *prometheus.GaugeVec
	reached *prometheus.GaugeVec
	hopRTT  *prometheus.HistogramVec
}

// newMetrics initializes metric collectors of the traceroute check
func newMetrics() metrics {
	return metrics{
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netprobe_traceroute_hop_count",
				Help: "Number of hops recorded towards the target.",
			},
			[]string{"target"},
		),
		reached: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netprobe_traceroute_target_reached",
				Help: "Specifies if the last recorded hop is the target itself.",
			},
			[]string{"target"},
		),
		hopRTT: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "netprobe_traceroute_hop_rtt_seconds",
				Help: "Histogram of the round-trip times of answered hops in seconds.",
			},
			[]string{"target"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.reached,
		m.hopRTT,
	}
}

// Set sets the metrics of one traceroute result.
// Silent hops are counted but their waits are not observed as round-trip times.
func (m *metrics) Set(res traceroute.Result) {
	m.hops.WithLabelValues(res.Target).Set(float64(len(res.Hops)))
	reached := 0.0
	if res.Reached() {
		reached = 1
	}
	m.reached.WithLabelValues(res.Target).Set(reached)

	for _, hop := range res.Hops {
		if hop.Responder == traceroute.NoResponse {
			continue
		}
		for _, rtt := range hop.RTTs {
			m.hopRTT.WithLabelValues(res.Target).Observe(rtt / 1000)
		}
	}
}
