// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netprobe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/telekom/netprobe/internal/probe"
)

//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	// LookupIPAddr looks up the IP addresses of a host
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Resolution holds the addresses a target resolved to.
type Resolution struct {
	IPv4 []string `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6 []string `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	// LookupMs is the duration of the lookup in milliseconds.
	// It is zero if the target already was an IP address.
	LookupMs float64 `json:"lookupMs" yaml:"lookupMs"`
}

// Address returns the address the checks run against.
// IPv4 addresses take precedence.
func (r *Resolution) Address() string {
	if len(r.IPv4) > 0 {
		return r.IPv4[0]
	}
	if len(r.IPv6) > 0 {
		return r.IPv6[0]
	}
	return ""
}

func (r *Resolution) add(ip net.IP) {
	if ip.To4() != nil {
		r.IPv4 = append(r.IPv4, ip.String())
		return
	}
	r.IPv6 = append(r.IPv6, ip.String())
}

// resolve turns the target into a set of addresses.
// Literal IP addresses are used as is without a lookup.
func resolve(ctx context.Context, resolver Resolver, target string) (*Resolution, error) {
	res := &Resolution{}
	if ip := net.ParseIP(target); ip != nil {
		res.add(ip)
		return res, nil
	}

	start := time.Now()
	addrs, err := resolver.LookupIPAddr(ctx, target)
	res.LookupMs = probe.Millis(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", target, err)
	}
	for _, addr := range addrs {
		res.add(addr.IP)
	}
	if res.Address() == "" {
		return nil, fmt.Errorf("failed to resolve %q: %w", target, ErrNoAddress)
	}
	return res, nil
}
