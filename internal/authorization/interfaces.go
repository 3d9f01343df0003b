// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/go-sdk/client"

	"github.com/canonical/explorer-service/internal/openfga"
)

type AuthorizerInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	ValidateModel(context.Context) error

	// CheckAdmin reports whether the user holds the admin relation on the service.
	CheckAdmin(context.Context, string) (bool, error)
	AssignAdmin(context.Context, string) error
	RemoveAdmin(context.Context, string) error
	ListAdmins(context.Context) ([]string, error)
}

type AuthzClientInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	ReadModel(context.Context) (*fga.AuthorizationModel, error)
	CompareModel(context.Context, fga.AuthorizationModel) (bool, error)
	ReadTuples(context.Context, string, string, string, string) (*client.ClientReadResponse, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}
