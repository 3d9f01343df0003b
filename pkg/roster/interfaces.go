// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roster

import (
	"context"

	ory "github.com/ory/client-go"

	"github.com/canonical/explorer-service/internal/types"
)

type ServiceInterface interface {
	ListRoster(ctx context.Context) ([]*types.RosterEntry, error)
}

type StorageInterface interface {
	ListCompanyData(ctx context.Context) ([]*types.CompanyDataRecord, error)
}

type KratosClientInterface interface {
	ListIdentities(ctx context.Context) ([]ory.Identity, error)
}
