// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"

	"github.com/canonical/explorer-service/internal/types"
)

type ServiceInterface interface {
	IssueInvitation(ctx context.Context, email, fullName, inviterID string) (*types.Invitation, string, error)
	GetInvitation(ctx context.Context, token string) (*types.Invitation, error)
	AcceptInvitation(ctx context.Context, token string) (string, error)
}

// StorageInterface is the subset of the internal storage interface the
// invitation lifecycle needs.
type StorageInterface interface {
	CreateInvitation(ctx context.Context, invitation *types.Invitation) (*types.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	GetPendingInvitationByEmail(ctx context.Context, email string) (*types.Invitation, error)
	ConsumeInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
}

type EmitterInterface interface {
	Publish(ctx context.Context, event *types.AnalyticsEvent)
}
