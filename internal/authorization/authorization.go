// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"
	"strings"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/openfga"
	"github.com/canonical/explorer-service/internal/tracing"
)

var ErrInvalidAuthModel = fmt.Errorf("invalid authorization model schema")

type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, user string, relation string, object string, contextualTuples ...openfga.Tuple) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	return a.client.Check(ctx, user, relation, object, contextualTuples...)
}

func (a *Authorizer) ValidateModel(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ValidateModel")
	defer span.End()

	v0AuthzModel := NewAuthorizationModelProvider("v0")
	model := *v0AuthzModel.GetModel()

	eq, err := a.client.CompareModel(ctx, model)
	if err != nil {
		return err
	}
	if !eq {
		return ErrInvalidAuthModel
	}
	return nil
}

func (a *Authorizer) CheckAdmin(ctx context.Context, userId string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckAdmin")
	defer span.End()

	return a.Check(ctx, UserTuple(userId), ADMIN_RELATION, ServiceTuple(ServiceObjectID))
}

func (a *Authorizer) AssignAdmin(ctx context.Context, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignAdmin")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), ADMIN_RELATION, ServiceTuple(ServiceObjectID))
}

func (a *Authorizer) RemoveAdmin(ctx context.Context, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveAdmin")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(userId), ADMIN_RELATION, ServiceTuple(ServiceObjectID))
}

func (a *Authorizer) ListAdmins(ctx context.Context) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ListAdmins")
	defer span.End()

	var admins []string
	cToken := ""
	for {
		r, err := a.client.ReadTuples(ctx, "", ADMIN_RELATION, ServiceTuple(ServiceObjectID), cToken)
		if err != nil {
			a.logger.Errorf("error when retrieving tuples: %s", err)
			return nil, err
		}
		for _, t := range r.Tuples {
			admins = append(admins, strings.TrimPrefix(t.Key.User, "user:"))
		}
		if r.ContinuationToken == "" {
			break
		}
		cToken = r.ContinuationToken
	}
	return admins, nil
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
