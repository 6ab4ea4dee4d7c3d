// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/netprobe/internal/logger"
	"github.com/telekom/netprobe/pkg/config"
	"github.com/telekom/netprobe/pkg/metrics"
	"github.com/telekom/netprobe/pkg/netprobe"
)

// flagKeys maps the probe command's flags to their configuration keys
var flagKeys = map[string]string{
	"trace":                  "trace",
	"output":                 "output",
	"metrics-file":           "metricsFile",
	"telemetry-enabled":      "telemetry.enabled",
	"telemetry-exporter":     "telemetry.exporter",
	"telemetry-url":          "telemetry.url",
	"telemetry-token":        "telemetry.token",
	"telemetry-tls-enabled":  "telemetry.tls.enabled",
	"telemetry-tls-certpath": "telemetry.tls.certPath",
}

// NewCmdProbe creates the probe command
func NewCmdProbe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe TARGET",
		Short: "Probe a target host or IP address",
		Long: "Resolves the target, pings it and, with --trace, discovers the route to it.\n" +
			"Raw sockets are used where permitted, the system ping and traceroute otherwise.",
		Example: "  netprobe probe example.com\n" +
			"  netprobe probe 192.0.2.1 --trace -o json",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			for flag, key := range flagKeys {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
			return nil
		},
		RunE: run(),
	}

	cmd.Flags().Bool("trace", false, "discover the route to the target")
	cmd.Flags().StringP("output", "o", config.OutputText.String(), "output format: text, json or yaml")
	cmd.Flags().String("metrics-file", "", "write prometheus metrics of the run to this file")
	cmd.Flags().Bool("telemetry-enabled", false, "export traces of the run")
	cmd.Flags().String("telemetry-exporter", metrics.NOOP.String(), "trace exporter: stdout, http, grpc or noop")
	cmd.Flags().String("telemetry-url", "", "endpoint of the trace collector")
	cmd.Flags().String("telemetry-token", "", "bearer token for the trace collector")
	cmd.Flags().Bool("telemetry-tls-enabled", false, "use TLS for the connection to the trace collector")
	cmd.Flags().String("telemetry-tls-certpath", "", "CA certificate for the connection to the trace collector")

	return cmd
}

// run is the entry point of the probe command
func run() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		ctx, cancel := logger.NewContextWithLogger(cmd.Context())
		defer cancel()

		if err := cfg.Validate(ctx); err != nil {
			return err
		}

		return netprobe.New(cfg, cmd.OutOrStdout()).Run(ctx, args[0])
	}
}
