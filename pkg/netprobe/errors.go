// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netprobe

import (
	"errors"
	"fmt"

	"github.com/telekom/netprobe/pkg/checks"
)

// ErrNoAddress is returned if a target resolves to neither an IPv4 nor an IPv6 address.
var ErrNoAddress = errors.New("no IPv4 or IPv6 address found")

// ErrRunningCheck is returned if a check of a run failed.
// The run itself continues with the remaining checks.
type ErrRunningCheck struct {
	Check checks.Check
	Err   error
}

func (e *ErrRunningCheck) Error() string {
	return fmt.Sprintf("check %s failed: %v", e.Check.Name(), e.Err)
}

func (e *ErrRunningCheck) Unwrap() error {
	return e.Err
}

// ErrShutdown holds any errors that may
// have occurred during shutdown of a run
type ErrShutdown struct {
	errMetrics error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errMetrics != nil
}

func (e ErrShutdown) Error() string {
	return fmt.Sprintf("failed to shut down metrics: %v", e.errMetrics)
}
