// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	buildInfoMetricName = "netprobe_build_info"
	buildInfoHelp       = "Build and host metadata of the netprobe run. Always 1, the information is carried by the labels."
)

// RegisterBuildInfo registers the netprobe_build_info info-style metric on the given registry.
// It sets the gauge to 1 with labels version and hostname.
// Empty strings are allowed, e.g. for development builds without a version.
func RegisterBuildInfo(registry *prometheus.Registry, version, hostname string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: buildInfoMetricName,
			Help: buildInfoHelp,
		},
		[]string{"version", "hostname"},
	)
	info.WithLabelValues(version, hostname).Set(1)
	return registry.Register(info)
}
