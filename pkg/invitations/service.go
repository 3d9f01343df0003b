// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/storage"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/internal/types"
)

var (
	// ErrInvitationNotFound covers unknown tokens and already consumed ones,
	// the two cases are deliberately indistinguishable.
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvitationPending  = errors.New("an invitation is already pending for this email")
)

// tokenBytes of CSPRNG output encode to 43 url-safe characters.
const tokenBytes = 32

type Service struct {
	storage StorageInterface
	kratos  KratosClientInterface
	emitter EmitterInterface

	baseURL  string
	lifetime time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	kratos KratosClientInterface,
	emitter EmitterInterface,
	baseURL string,
	lifetime time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:  storage,
		kratos:   kratos,
		emitter:  emitter,
		baseURL:  baseURL,
		lifetime: lifetime,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

func (s *Service) IssueInvitation(ctx context.Context, email, fullName, inviterID string) (*types.Invitation, string, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.IssueInvitation")
	defer span.End()

	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("failed to check identity existence: %v", err)
		return nil, "", fmt.Errorf("failed to check identity: %w", err)
	}
	if identityID != "" {
		return nil, "", ErrEmailRegistered
	}

	if _, err := s.storage.GetPendingInvitationByEmail(ctx, email); err == nil {
		return nil, "", ErrInvitationPending
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check pending invitations: %w", err)
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation := &types.Invitation{
		Email:     email,
		FullName:  fullName,
		InvitedBy: inviterID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.lifetime),
	}

	created, err := s.storage.CreateInvitation(ctx, invitation)
	if err != nil {
		// a racing issue for the same email lands here through the partial
		// unique index
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, "", ErrInvitationPending
		}
		return nil, "", fmt.Errorf("failed to store invitation: %w", err)
	}

	return created, s.inviteLink(token), nil
}

func (s *Service) GetInvitation(ctx context.Context, token string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.GetInvitation")
	defer span.End()

	invitation, err := s.storage.GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	if time.Now().UTC().After(invitation.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	return invitation, nil
}

func (s *Service) AcceptInvitation(ctx context.Context, token string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.AcceptInvitation")
	defer span.End()

	invitation, err := s.storage.ConsumeInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvitationNotFound
		}
		return "", fmt.Errorf("failed to consume invitation: %w", err)
	}

	s.emitter.Publish(ctx, &types.AnalyticsEvent{
		Name: "invitation_accepted",
		Properties: map[string]interface{}{
			"email": invitation.Email,
			"token": invitation.Token,
		},
	})

	return invitation.Email, nil
}

func (s *Service) inviteLink(token string) string {
	return strings.TrimSuffix(s.baseURL, "/") + "/invite/" + token
}

func newInviteToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
