// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidOutput is returned when the output format is not supported
	ErrInvalidOutput = errors.New("invalid output format")
	// ErrInvalidMetricsFile is returned when the metrics file cannot be written
	ErrInvalidMetricsFile = errors.New("invalid metrics file")
)
