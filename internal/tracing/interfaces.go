// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"context"

	trace "go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -build_flags=--mod=mod -package tracing -destination ./mock_tracing.go -source=./interfaces.go

type TracingInterface interface {
	Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}
