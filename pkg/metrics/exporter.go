// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc/credentials"
)

// Exporter is the protocol used to export the traces
type Exporter string

const (
	// HTTP is the protocol for exporting traces via HTTP/protobuf
	HTTP Exporter = "http"
	// GRPC is the protocol for exporting traces via gRPC
	GRPC Exporter = "grpc"
	// STDOUT prints the traces as JSON.
	// The traces are written to stderr to keep the probe output on stdout parseable.
	STDOUT Exporter = "stdout"
	// NOOP discards the traces
	NOOP Exporter = "noop"
)

// String returns the string representation of the protocol
func (e Exporter) String() string {
	return string(e)
}

// Validate validates the protocol
func (e Exporter) Validate() error {
	switch e {
	case HTTP, GRPC, STDOUT, NOOP, "":
		return nil
	}
	return fmt.Errorf("unsupported exporter type: %q", e)
}

// IsExporting returns true if the protocol exports traces to a collector
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

// Create creates a new span exporter for the protocol
func (e Exporter) Create(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	switch e {
	case HTTP:
		return newHTTPExporter(ctx, config)
	case GRPC:
		return newGRPCExporter(ctx, config)
	case STDOUT:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	case NOOP, "":
		return tracetest.NewNoopExporter(), nil
	}
	return nil, fmt.Errorf("unsupported exporter type: %q", e)
}

func newHTTPExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(config.Url),
		otlptracehttp.WithHeaders(authHeader(config.Token)),
	}

	if !config.TLS.Enabled {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		tlsCfg, err := getTLSConfig(config.TLS.CertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS configuration: %w", err)
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	}

	return otlptracehttp.New(ctx, opts...)
}

func newGRPCExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpointURL(config.Url),
		otlptracegrpc.WithHeaders(authHeader(config.Token)),
	}

	if !config.TLS.Enabled {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		tlsCfg, err := getTLSConfig(config.TLS.CertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS configuration: %w", err)
		}
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	}

	return otlptracegrpc.New(ctx, opts...)
}

// authHeader returns the authorization header for the token, if any.
func authHeader(token string) map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": fmt.Sprintf("Bearer %s", token)}
}

// getTLSConfig returns the TLS configuration.
// The system cert pool is used unless a certificate file is given.
func getTLSConfig(certFile string) (*tls.Config, error) {
	conf := &tls.Config{MinVersion: tls.VersionTLS12}
	if certFile == "" {
		return conf, nil
	}

	b, err := os.ReadFile(certFile) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(b) {
		return nil, errors.New("failed to append certificate(s) from PEM")
	}
	conf.RootCAs = pool
	return conf, nil
}
