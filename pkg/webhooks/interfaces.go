// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/canonical/explorer-service/internal/types"
)

type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identityID, email, inviteToken string) error
}

// StorageInterface is the subset of the invitation store the webhook needs.
type StorageInterface interface {
	ConsumeInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	ConsumeInvitationByEmail(ctx context.Context, email string) (*types.Invitation, error)
}

type EmitterInterface interface {
	Publish(ctx context.Context, event *types.AnalyticsEvent)
}
