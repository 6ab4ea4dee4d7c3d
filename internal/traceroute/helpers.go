// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net"

	"github.com/telekom/netprobe/internal/logger"
)

// remoteIPv4 returns the IPv4 address of a socket peer, or nil for other address types.
func remoteIPv4(addr net.Addr) net.IP {
	var ip net.IP
	switch a := addr.(type) {
	case *net.UDPAddr:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	}
	return ip.To4()
}

// logHops logs one debug line per hop of the result.
func logHops(ctx context.Context, res Result) {
	log := logger.FromContext(ctx).With("target", res.Target, "source", res.Source)
	for _, hop := range res.Hops {
		log.DebugContext(ctx, "Traceroute hop", "ttl", hop.TTL, "responder", hop.Responder, "rttsMs", hop.RTTs)
	}
}
