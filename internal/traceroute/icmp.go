// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net"
)

// icmpListener is an interface for reading the reply to a hop probe.
//
//go:generate go tool moq -out icmp_moq.go . icmpListener
type icmpListener interface {
	// Read blocks until a reply arrives or the context deadline is exceeded.
	Read(ctx context.Context) (icmpPacket, error)
	Close() error
}

// icmpPacket represents the reply to a hop probe.
type icmpPacket struct {
	// responder is the address of the device (typically a router)
	// that answered our traceroute probe.
	responder net.IP
	// icmpType is the ICMP type of the reply, or 0 for a plain datagram.
	icmpType uint8
	// icmpCode is the ICMP code of the reply.
	icmpCode uint8
}

// ICMP codes for Destination Unreachable messages.
// For more information, see:
// https://www.iana.org/assignments/icmp-parameters/icmp-parameters.xhtml#icmp-parameters-codes-3
const (
	// icmpUnreachablePort is the ICMP code for Destination Unreachable - "Port Unreachable" messages.
	icmpUnreachablePort = 3
)
