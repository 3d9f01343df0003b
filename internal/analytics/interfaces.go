// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"context"

	"github.com/canonical/explorer-service/internal/types"
)

// EmitterInterface publishes product analytics events. Implementations must
// never block the caller or surface delivery failures, analytics are strictly
// best effort.
type EmitterInterface interface {
	Publish(ctx context.Context, event *types.AnalyticsEvent)
}
