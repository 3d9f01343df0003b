// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/canonical/explorer-service/internal/db"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/internal/types"
	"github.com/google/uuid"
)

var _ StorageInterface = (*Storage)(nil)

const invitationColumns = "id, email, full_name, invited_by, token, used, created_at, expires_at"

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *Storage) CreateInvitation(ctx context.Context, invitation *types.Invitation) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateInvitation")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation ID: %w", err)
	}

	var created types.Invitation
	err = s.db.Statement(ctx).
		Insert("invitations").
		Columns("id", "email", "full_name", "invited_by", "token", "expires_at").
		Values(id.String(), invitation.Email, invitation.FullName, invitation.InvitedBy, invitation.Token, invitation.ExpiresAt).
		Suffix(fmt.Sprintf("RETURNING %s", invitationColumns)).
		QueryRowContext(ctx).
		Scan(&created.ID, &created.Email, &created.FullName, &created.InvitedBy, &created.Token, &created.Used, &created.CreatedAt, &created.ExpiresAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert invitation: %w", err)
	}

	return &created, nil
}

// GetInvitationByToken returns the pending invitation carrying the token.
// Consumed invitations are filtered out on purpose, a used token is
// indistinguishable from one that never existed.
func (s *Storage) GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetInvitationByToken")
	defer span.End()

	var invitation types.Invitation
	err := s.db.Statement(ctx).
		Select("id", "email", "full_name", "invited_by", "token", "used", "created_at", "expires_at").
		From("invitations").
		Where(sq.Eq{"token": token, "used": false}).
		QueryRowContext(ctx).
		Scan(&invitation.ID, &invitation.Email, &invitation.FullName, &invitation.InvitedBy, &invitation.Token, &invitation.Used, &invitation.CreatedAt, &invitation.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return &invitation, nil
}

func (s *Storage) GetPendingInvitationByEmail(ctx context.Context, email string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetPendingInvitationByEmail")
	defer span.End()

	var invitation types.Invitation
	err := s.db.Statement(ctx).
		Select("id", "email", "full_name", "invited_by", "token", "used", "created_at", "expires_at").
		From("invitations").
		Where(sq.Eq{"email": email, "used": false}).
		Where(sq.Gt{"expires_at": time.Now().UTC()}).
		QueryRowContext(ctx).
		Scan(&invitation.ID, &invitation.Email, &invitation.FullName, &invitation.InvitedBy, &invitation.Token, &invitation.Used, &invitation.CreatedAt, &invitation.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pending invitation: %w", err)
	}

	return &invitation, nil
}

// ConsumeInvitationByToken flips the invitation to used with a single
// conditional update. The predicate carries the at most once guarantee, under
// concurrent accepts exactly one caller gets the row back, every other one
// sees ErrNotFound.
func (s *Storage) ConsumeInvitationByToken(ctx context.Context, token string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ConsumeInvitationByToken")
	defer span.End()

	return s.consumeInvitation(ctx, sq.Eq{"token": token})
}

// ConsumeInvitationByEmail is the fallback used by the registration webhook
// when no token travels with the signup.
func (s *Storage) ConsumeInvitationByEmail(ctx context.Context, email string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ConsumeInvitationByEmail")
	defer span.End()

	return s.consumeInvitation(ctx, sq.Eq{"email": email})
}

func (s *Storage) consumeInvitation(ctx context.Context, pred sq.Eq) (*types.Invitation, error) {
	var invitation types.Invitation
	err := s.db.Statement(ctx).
		Update("invitations").
		Set("used", true).
		Where(pred).
		Where(sq.Eq{"used": false}).
		Where(sq.Gt{"expires_at": time.Now().UTC()}).
		Suffix(fmt.Sprintf("RETURNING %s", invitationColumns)).
		QueryRowContext(ctx).
		Scan(&invitation.ID, &invitation.Email, &invitation.FullName, &invitation.InvitedBy, &invitation.Token, &invitation.Used, &invitation.CreatedAt, &invitation.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to consume invitation: %w", err)
	}

	return &invitation, nil
}
