// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"os"
)

var (
	// errFirstHopSilent is the cause of the privilege error raised when the first hop does not answer.
	// This typically occurs when ICMP errors are filtered or the environment restricts them
	// (e.g., some containerized environments).
	errFirstHopSilent = errors.New("no response from the first hop, traceroute requires elevated privileges in this environment")
	// errIPv6NotSupported is returned for IPv6 targets.
	errIPv6NotSupported = errors.New("traceroute supports IPv4 targets only")
)

// isTimeout checks if the error means that no reply arrived in time.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}
