// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package probe holds what the ping and traceroute engines share: the typed
// [ProbeError] taxonomy and the [Runner] used to invoke external diagnostic
// commands when raw sockets cannot be used.
package probe
