// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"errors"
	"fmt"
)

// Kind classifies a [ProbeError].
type Kind int

const (
	// KindInvalidTarget is used when the target is not a usable IP address.
	KindInvalidTarget Kind = iota + 1
	// KindPermissionDenied is used when the process lacks the privilege to open a raw socket.
	KindPermissionDenied
	// KindSocketFailure covers any other socket setup, send or receive error.
	KindSocketFailure
	// KindParseFailure is used when the output of an external command is missing expected lines.
	KindParseFailure
	// KindPrivilegeRequired is used when the first traceroute hop stays silent.
	KindPrivilegeRequired
	// KindCommandFailed is used when an external command could not be started.
	KindCommandFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidTarget:
		return "invalid target"
	case KindPermissionDenied:
		return "permission denied"
	case KindSocketFailure:
		return "socket failure"
	case KindParseFailure:
		return "parse failure"
	case KindPrivilegeRequired:
		return "privilege required"
	case KindCommandFailed:
		return "command failed"
	default:
		return "unknown"
	}
}

// Sentinels for use with [errors.Is]. A [ProbeError] matches the sentinel of its [Kind].
var (
	ErrInvalidTarget     = &ProbeError{Kind: KindInvalidTarget}
	ErrPermissionDenied  = &ProbeError{Kind: KindPermissionDenied}
	ErrSocketFailure     = &ProbeError{Kind: KindSocketFailure}
	ErrParseFailure      = &ProbeError{Kind: KindParseFailure}
	ErrPrivilegeRequired = &ProbeError{Kind: KindPrivilegeRequired}
	ErrCommandFailed     = &ProbeError{Kind: KindCommandFailed}
)

// ProbeError is the error returned by the probe engines.
type ProbeError struct {
	// Kind is the classification of the error.
	Kind Kind
	// Op is a short description of the operation that failed, e.g. "open icmp socket".
	Op string
	// Err is the underlying cause, if any.
	Err error
}

// NewError returns a [ProbeError] of the given kind.
func NewError(kind Kind, op string, err error) *ProbeError {
	return &ProbeError{Kind: kind, Op: op, Err: err}
}

func (e *ProbeError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a [ProbeError] of the same [Kind].
func (e *ProbeError) Is(target error) bool {
	var pe *ProbeError
	if !errors.As(target, &pe) {
		return false
	}
	return pe.Kind == e.Kind
}

// KindOf returns the [Kind] of the first [ProbeError] in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
