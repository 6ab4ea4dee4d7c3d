// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/telekom/netprobe/pkg/metrics"
)

// Output is the format the probe results are printed in
type Output string

const (
	// OutputText prints aligned, human-readable sections
	OutputText Output = "text"
	// OutputJSON prints the results as a JSON document
	OutputJSON Output = "json"
	// OutputYAML prints the results as a YAML document
	OutputYAML Output = "yaml"
)

// String returns the string representation of the output format
func (o Output) String() string {
	return string(o)
}

type Config struct {
	// Trace enables the traceroute in addition to the ping
	Trace bool `yaml:"trace" mapstructure:"trace"`
	// Output is the format of the printed results
	Output Output `yaml:"output" mapstructure:"output"`
	// MetricsFile is the path the prometheus metrics of the run are written to.
	// No file is written if it is empty.
	MetricsFile string `yaml:"metricsFile" mapstructure:"metricsFile"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// HasMetricsFile returns true if the metrics should be written to a file
func (c *Config) HasMetricsFile() bool {
	return c.MetricsFile != ""
}
