// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/explorer-service/internal/types"
)

type StorageInterface interface {
	CreateInvitation(ctx context.Context, invitation *types.Invitation) (*types.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	GetPendingInvitationByEmail(ctx context.Context, email string) (*types.Invitation, error)
	ConsumeInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	ConsumeInvitationByEmail(ctx context.Context, email string) (*types.Invitation, error)
	ListCompanyData(ctx context.Context) ([]*types.CompanyDataRecord, error)
}
