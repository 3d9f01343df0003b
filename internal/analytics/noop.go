// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"context"

	"github.com/canonical/explorer-service/internal/types"
)

// NoopEmitter drops every event, it backs deployments with no analytics
// endpoint configured.
type NoopEmitter struct{}

func (e *NoopEmitter) Publish(ctx context.Context, event *types.AnalyticsEvent) {
}

func NewNoopEmitter() *NoopEmitter {
	return new(NoopEmitter)
}
