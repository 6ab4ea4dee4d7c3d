// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute discovers the hops between this host and an IPv4 address.
//
// The [Client] prefers the system traceroute binary when it is installed at
// one of the well-known paths and parses its numeric output. Otherwise it
// runs a pure-Go UDP traceroute: for every TTL from 1 to 30 it opens a fresh
// UDP socket, sets IP_TTL, sends one datagram to port 33434+TTL and waits up
// to two seconds for the kernel to queue the ICMP time-exceeded or
// port-unreachable error on that socket (IP_RECVERR). No raw socket is needed.
//
// Hops are probed strictly one after the other; the run stops as soon as the
// destination itself answers. If the very first hop stays silent the run is
// aborted with [probe.ErrPrivilegeRequired], since that usually means ICMP
// errors are filtered in this environment.
//
// Typical usage:
//
//	client := traceroute.NewClient()
//	res, err := client.Run(ctx, "192.0.2.1")
//	for _, hop := range res.Hops {
//		fmt.Println(hop)
//	}
package traceroute
