// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"bufio"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// e2eTimeMargin defines the acceptable time margin for end-to-end tests.
const e2eTimeMargin = 5 * time.Minute

// ReportAsserter asserts the decoded JSON report of a run.
type ReportAsserter struct {
	t           *testing.T
	report      map[string]any
	metricsFile string
}

// AssertTarget asserts the reported target and that it resolved to addr.
func (a *ReportAsserter) AssertTarget(target, addr string) *ReportAsserter {
	a.t.Helper()
	assert.Equal(a.t, target, a.report["target"])
	res, ok := a.report["resolution"].(map[string]any)
	require.True(a.t, ok, "Resolution is missing, got %T", a.report["resolution"])
	assertValueEqual(a.t, []string{addr}, res["ipv4"])
	return a
}

// AssertCheck asserts that the check ran without error and that its data
// contains the expected values. Keys not in expected are ignored.
func (a *ReportAsserter) AssertCheck(name string, expected map[string]any) *ReportAsserter {
	a.t.Helper()
	result := a.result(name)
	assert.Empty(a.t, result["error"], "Check %s reported an error", name)

	ts, ok := result["timestamp"].(string)
	require.True(a.t, ok, "Check %s has no timestamp", name)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(a.t, err)
	assertValueEqual(a.t, time.Now(), parsed)

	data, ok := result["data"].(map[string]any)
	require.True(a.t, ok, "Data of check %s is not a map, got %T", name, result["data"])
	assertMapContains(a.t, expected, data)
	return a
}

// AssertMetrics asserts that the metrics file contains samples of all given metric families.
func (a *ReportAsserter) AssertMetrics(names ...string) *ReportAsserter {
	a.t.Helper()
	require.NotEmpty(a.t, a.metricsFile, "No metrics file configured")
	f, err := os.Open(a.metricsFile)
	require.NoError(a.t, err)
	defer func() { _ = f.Close() }()

	found := map[string]bool{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, name := range names {
			if strings.HasPrefix(line, name+"{") || strings.HasPrefix(line, name+" ") {
				found[name] = true
			}
		}
	}
	require.NoError(a.t, scanner.Err())
	for _, name := range names {
		assert.True(a.t, found[name], "Metric %s not found in %s", name, a.metricsFile)
	}
	return a
}

func (a *ReportAsserter) result(name string) map[string]any {
	a.t.Helper()
	cs, ok := a.report["checks"].([]any)
	require.True(a.t, ok, "Checks are missing, got %T", a.report["checks"])
	for _, c := range cs {
		dto, ok := c.(map[string]any)
		require.True(a.t, ok)
		if dto["name"] != name {
			continue
		}
		result, ok := dto["result"].(map[string]any)
		require.True(a.t, ok, "Check %s has no result", name)
		return result
	}
	a.t.Fatalf("Check %s not found in report", name)
	return nil
}

// assertMapContains compares every expected key with the actual value using assertValueEqual.
func assertMapContains(t *testing.T, expected, actual map[string]any) {
	t.Helper()
	for key, expVal := range expected {
		actVal, exists := actual[key]
		if assert.True(t, exists, "Missing key %s in actual data", key) {
			assertValueEqual(t, expVal, actVal)
		}
	}
}

// assertValueEqual performs type-specific comparisons.
// JSON decodes numbers as float64 and timestamps as strings, so plain
// equality does not work for them.
func assertValueEqual(t *testing.T, expected, actual any) {
	t.Helper()
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		require.True(t, ok, "Expected value for map is not a map, got %T", actual)
		assertMapContains(t, exp, act)

	// Timestamps of a run cannot match exactly, they only need to be recent.
	case time.Time:
		act, ok := actual.(time.Time)
		require.True(t, ok, "Expected time.Time, got %T", actual)
		assert.WithinDuration(t, exp, act, e2eTimeMargin, "Timestamp is not recent")

	case int:
		assert.InDelta(t, float64(exp), toFloat64(actual), 0, "Int value differs")

	case float64:
		assert.InDelta(t, exp, toFloat64(actual), 1e-9, "Float value differs")

	// Addresses only need to be valid IPs of the same family.
	case []string:
		actSlice, ok := actual.([]any)
		require.True(t, ok, "Expected slice of any for []string, got %T", actual)
		require.Len(t, actSlice, len(exp))
		for i, v := range actSlice {
			s, ok := v.(string)
			require.True(t, ok, "Element at index %d is not a string, got %T", i, v)
			if ip := net.ParseIP(exp[i]); ip != nil {
				actIP := net.ParseIP(s)
				require.NotNil(t, actIP, "Actual value at index %d is not a valid IP", i)
				assert.Equal(t, ip.To4() != nil, actIP.To4() != nil, "IP family at index %d differs", i)
				continue
			}
			assert.Equal(t, exp[i], s, "String at index %d differs", i)
		}

	default:
		assert.Equal(t, expected, actual, "Values differ")
	}
}

// toFloat64 converts the numeric types JSON decoding can produce to float64.
func toFloat64(value any) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}
