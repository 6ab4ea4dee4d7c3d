// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/telekom/netprobe/internal/logger"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseAddress parses a literal IP address.
// Hostnames are rejected, resolution happens before the engines are called.
func ParseAddress(address string) (net.IP, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return nil, NewError(KindInvalidTarget, "parse address", fmt.Errorf("%q is not an IP address", address))
	}
	return ip, nil
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func WrapError(ctx context.Context, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)

	log.ErrorContext(ctx, caser.String(fmt.Sprintf(msg, args...)), "error", err)
	span.SetStatus(codes.Error, fmt.Sprintf(msg, args...))
	span.RecordError(err)
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)
}
