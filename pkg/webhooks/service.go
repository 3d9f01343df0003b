// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/storage"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/internal/types"
)

type Service struct {
	storage StorageInterface
	emitter EmitterInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	emitter EmitterInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		emitter: emitter,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// HandleRegistration reconciles a fresh signup with the invitation that led
// to it and records the account creation. Invitation bookkeeping is best
// effort, a consume failure must never block the registration flow.
func (s *Service) HandleRegistration(ctx context.Context, identityID, email, inviteToken string) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	s.logger.Debugf("handling registration for identity %s with email %s", identityID, email)

	if identityID == "" || email == "" {
		return fmt.Errorf("identity ID or email is empty")
	}

	invitation := s.consumeInvitation(ctx, email, inviteToken)

	s.emitter.Publish(ctx, &types.AnalyticsEvent{
		Name: "account_created",
		Properties: map[string]interface{}{
			"identity_id": identityID,
			"email":       email,
			"invited":     invitation != nil,
		},
	})

	return nil
}

// consumeInvitation marks the matching pending invitation used. The transient
// token is tried first and the registration email second, covering signups
// where the token never made it through the flow.
func (s *Service) consumeInvitation(ctx context.Context, email, inviteToken string) *types.Invitation {
	if inviteToken != "" {
		invitation, err := s.storage.ConsumeInvitationByToken(ctx, inviteToken)
		if err == nil {
			return invitation
		}
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Errorf("failed to consume invitation by token: %v", err)
			return nil
		}
	}

	invitation, err := s.storage.ConsumeInvitationByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Errorf("failed to consume invitation by email: %v", err)
		}
		return nil
	}

	return invitation
}
