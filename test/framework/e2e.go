// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/telekom/netprobe/internal/probe"
	"github.com/telekom/netprobe/pkg/config"
	"github.com/telekom/netprobe/pkg/netprobe"
)

// E2E is an end-to-end test of a single netprobe run.
type E2E struct {
	config config.Config
	t      *testing.T
	out    bytes.Buffer

	running int32
}

// New creates an end-to-end test that renders the report as JSON.
func New(t *testing.T) *E2E {
	return &E2E{
		t:      t,
		config: config.Config{Output: config.OutputJSON},
	}
}

// WithTrace enables the traceroute check.
func (e *E2E) WithTrace() *E2E {
	e.config.Trace = true
	return e
}

// WithMetricsFile writes the metrics of the run to a temporary file.
func (e *E2E) WithMetricsFile() *E2E {
	e.config.MetricsFile = filepath.Join(e.t.TempDir(), "netprobe.prom")
	return e
}

// Run probes the target and returns an asserter for the report.
// The test is skipped if the host allows neither raw sockets nor
// usable system utilities, since no strategy can produce a measurement then.
func (e *E2E) Run(ctx context.Context, target string) *ReportAsserter {
	e.t.Helper()
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		e.t.Fatal("E2E.Run must be called once")
	}

	require.NoError(e.t, e.config.Validate(ctx))
	err := netprobe.New(&e.config, &e.out).Run(ctx, target)
	if errors.Is(err, probe.ErrPermissionDenied) ||
		errors.Is(err, probe.ErrCommandFailed) ||
		errors.Is(err, probe.ErrPrivilegeRequired) ||
		errors.Is(err, probe.ErrParseFailure) {
		e.t.Skipf("Host cannot probe %s: %v", target, err)
	}
	require.NoError(e.t, err)

	var report map[string]any
	require.NoError(e.t, json.Unmarshal(e.out.Bytes(), &report), "report is not valid json: %s", e.out.String())
	return &ReportAsserter{
		t:           e.t,
		report:      report,
		metricsFile: e.config.MetricsFile,
	}
}
