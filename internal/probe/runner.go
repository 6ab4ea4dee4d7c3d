// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/telekom/netprobe/internal/logger"
)

var _ Runner = (*execRunner)(nil)

// Runner runs an external command and returns its standard output.
//
//go:generate go tool moq -out runner_moq.go . Runner
type Runner interface {
	// Run executes name with args and returns the captured standard output.
	// A non-zero exit status is not an error as long as the command started:
	// ping and traceroute exit non-zero on loss but still print usable output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewRunner returns a [Runner] backed by [exec.CommandContext].
func NewRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	log := logger.FromContext(ctx).With("command", name, "args", args)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 // name and args are fixed by the callers
	cmd.Stdout = &stdout

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.DebugContext(ctx, "Command exited with non-zero status", "exitCode", exitErr.ExitCode())
		return stdout.Bytes(), nil
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to run command", "error", err)
		return nil, NewError(KindCommandFailed, "run "+name, err)
	}

	log.DebugContext(ctx, "Command finished", "bytes", stdout.Len())
	return stdout.Bytes(), nil
}

// StatFunc has the signature of [os.Stat].
// It allows us to mock the filesystem in tests.
type StatFunc func(name string) (os.FileInfo, error)

// FirstExisting returns the first of paths that exists according to stat,
// or an empty string if none does.
func FirstExisting(stat StatFunc, paths ...string) string {
	for _, p := range paths {
		if _, err := stat(p); err == nil {
			return p
		}
	}
	return ""
}
