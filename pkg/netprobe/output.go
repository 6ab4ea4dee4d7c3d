// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netprobe

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/telekom/netprobe/internal/ping"
	"github.com/telekom/netprobe/internal/traceroute"
	"github.com/telekom/netprobe/pkg"
	"github.com/telekom/netprobe/pkg/checks"
	"github.com/telekom/netprobe/pkg/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ruleWidth is the width of the banner and section rules of the text output.
const ruleWidth = 40

// Report is the outcome of a single run.
type Report struct {
	Target     string      `json:"target" yaml:"target"`
	Resolution *Resolution `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	// Error is set if the target could not be resolved. No checks run in that case.
	Error  string             `json:"error,omitempty" yaml:"error,omitempty"`
	Checks []checks.ResultDTO `json:"checks" yaml:"checks"`
}

// render writes the report to w in the given format.
func render(w io.Writer, format config.Output, rep *Report) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report as json: %w", err)
		}
		return nil
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report as yaml: %w", err)
		}
		return enc.Close()
	default:
		return renderText(w, rep)
	}
}

// textWriter remembers the first write error so the text rendering
// does not need to check every line.
type textWriter struct {
	w     io.Writer
	title cases.Caser
	err   error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

// kv prints an aligned key/value line.
func (t *textWriter) kv(label string, value any) {
	t.printf("  %-12s %v", label, value)
}

func (t *textWriter) section(name string) {
	head := fmt.Sprintf("=== %s ", name)
	t.printf("\n%s%s", head, strings.Repeat("=", max(0, ruleWidth-len(head))))
}

func renderText(w io.Writer, rep *Report) error {
	t := &textWriter{w: w, title: cases.Title(language.English)}

	t.printf("%s", strings.Repeat("=", ruleWidth))
	t.printf("  %s - Network Diagnostics", strings.TrimSpace("netprobe "+pkg.Version))
	t.printf("  Target: %s", rep.Target)
	t.printf("%s", strings.Repeat("=", ruleWidth))

	t.section("DNS")
	if rep.Resolution == nil {
		t.kv("Error:", rep.Error)
		return t.err
	}
	if len(rep.Resolution.IPv4) > 0 {
		t.kv("IPv4:", strings.Join(rep.Resolution.IPv4, ", "))
	}
	if len(rep.Resolution.IPv6) > 0 {
		t.kv("IPv6:", strings.Join(rep.Resolution.IPv6, ", "))
	}
	t.kv("Lookup:", fmt.Sprintf("%.2f ms", rep.Resolution.LookupMs))

	for _, c := range rep.Checks {
		t.section(t.title.String(c.Name))
		if c.Result == nil {
			continue
		}
		switch data := c.Result.Data.(type) {
		case ping.Measurement:
			t.kv("Sent:", data.Sent)
			t.kv("Received:", data.Received)
			t.kv("Loss:", fmt.Sprintf("%.1f%%", data.LossPercent))
			t.kv("Min:", fmt.Sprintf("%.2f ms", data.MinMs))
			t.kv("Avg:", fmt.Sprintf("%.2f ms", data.AvgMs))
			t.kv("Max:", fmt.Sprintf("%.2f ms", data.MaxMs))
			t.kv("Source:", data.Source)
		case traceroute.Result:
			for _, hop := range data.Hops {
				t.printf("  %s", hop)
			}
			t.kv("Source:", data.Source)
		case nil:
		default:
			t.kv("Data:", data)
		}
		if c.Result.Error != "" {
			t.kv("Error:", c.Result.Error)
		}
	}
	return t.err
}
