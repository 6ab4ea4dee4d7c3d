// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package ping measures round-trip latency to a single address.
//
// A [Pinger] first sends ICMP echo requests over a raw socket. When the
// process is not allowed to open one, the raw prober reports
// [probe.ErrPermissionDenied] and the pinger switches to the system ping
// command, whose summary is parsed into the same [Measurement].
// Any other raw-socket error is returned as is.
//
// Typical usage:
//
//	p := ping.NewPinger()
//	m, err := p.Ping(ctx, "192.0.2.1")
//	if errors.Is(err, probe.ErrParseFailure) {
//		// m holds best-effort data parsed from the ping command
//	}
package ping
