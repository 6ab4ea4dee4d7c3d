// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/telekom/netprobe/internal/logger"
)

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		log.Error("The output format is not supported", "output", c.Output)
		err = errors.Join(err, ErrInvalidOutput)
	}

	if c.HasMetricsFile() {
		if vErr := validateMetricsFile(c.MetricsFile); vErr != nil {
			log.Error("The metrics file cannot be written", "path", c.MetricsFile, "error", vErr)
			err = errors.Join(err, vErr)
		}
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.Error("The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// validateMetricsFile checks that the metrics file would be placed in an existing directory.
func validateMetricsFile(path string) error {
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMetricsFile, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", ErrInvalidMetricsFile, filepath.Dir(path))
	}
	return nil
}
