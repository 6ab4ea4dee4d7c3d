// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package checks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Check implementations perform one diagnostic against a target and report the result.
//
//go:generate go tool moq -out base_moq.go . Check
type Check interface {
	// Run performs the check once against the target address.
	// A Result may be returned together with an error if the check only
	// partially succeeded, e.g. when the output of an external command could
	// only be partially parsed.
	Run(ctx context.Context, target string) (*Result, error)
	// Name returns the name of the check
	Name() string
	// GetMetricCollectors allows the check to provide prometheus metric collectors
	GetMetricCollectors() []prometheus.Collector
}

// Result encapsulates the outcome of a check run.
type Result struct {
	// Data contains performance metrics about the check run
	Data any `json:"data,omitempty" yaml:"data,omitempty"`
	// Error is the human-readable failure of the check run, if any
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Timestamp is the UTC time the check was run
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// ResultDTO is a data transfer object used to associate a check's name with its result.
type ResultDTO struct {
	Name   string  `json:"name" yaml:"name"`
	Result *Result `json:"result" yaml:"result"`
}

// NewResult returns a Result of a check run that finished now.
// The error, if any, is kept as its message.
func NewResult(data any, err error) *Result {
	res := &Result{Data: data, Timestamp: time.Now().UTC()}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
