// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package test

import "testing"

// MarkAsLong marks a test that sends real packets over the host's network stack.
// Long tests are skipped with -short.
func MarkAsLong(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping long running test in short mode")
	}
}
