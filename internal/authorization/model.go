// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"encoding/json"
	"fmt"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/language/pkg/go/transformer"
	"google.golang.org/protobuf/encoding/protojson"
)

// authModel grants admin API access through a single service object,
// so granting or revoking an admin is one tuple write.
const authModel = `model
  schema 1.1

type user

type service
  relations
    define admin: [user]
`

type AuthorizationModelProvider struct {
	version string
}

// GetModel returns the authorization model the service expects to find in the
// store. The DSL is transformed at startup, a malformed model is a programming
// error and panics.
func (p *AuthorizationModelProvider) GetModel() *fga.AuthorizationModel {
	protoModel := transformer.MustTransformDSLToProto(authModel)

	b, err := protojson.Marshal(protoModel)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal authorization model: %s", err))
	}

	model := new(fga.AuthorizationModel)
	if err := json.Unmarshal(b, model); err != nil {
		panic(fmt.Sprintf("failed to unmarshal authorization model: %s", err))
	}

	return model
}

func NewAuthorizationModelProvider(version string) *AuthorizationModelProvider {
	provider := new(AuthorizationModelProvider)
	provider.version = version

	return provider
}
