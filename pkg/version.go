// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pkg contains metadata about netprobe.
package pkg

// Version is the current version of netprobe.
// It is set at build time by using -ldflags "-X main.version=x.x.x".
var Version string
