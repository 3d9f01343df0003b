// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roster

import (
	"context"
	"fmt"
	"sort"
	"time"

	ory "github.com/ory/client-go"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/internal/types"
)

type Service struct {
	storage StorageInterface
	kratos  KratosClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(storage StorageInterface, kratos KratosClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		storage: storage,
		kratos:  kratos,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// ListRoster joins the full identity collection with the company data
// summaries. Users with no company_data rows still appear, with a zero count
// and has_data false.
func (s *Service) ListRoster(ctx context.Context) ([]*types.RosterEntry, error) {
	ctx, span := s.tracer.Start(ctx, "roster.Service.ListRoster")
	defer span.End()

	identities, err := s.kratos.ListIdentities(ctx)
	if err != nil {
		s.logger.Errorf("failed to list identities: %v", err)
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	records, err := s.storage.ListCompanyData(ctx)
	if err != nil {
		s.logger.Errorf("failed to list company data: %v", err)
		return nil, fmt.Errorf("failed to list company data: %w", err)
	}

	counts := make(map[string]int, len(records))
	present := make(map[string]bool, len(records))
	for _, record := range records {
		counts[record.UserID] += record.CompanyCount
		present[record.UserID] = true
	}

	entries := make([]*types.RosterEntry, 0, len(identities))
	for _, identity := range identities {
		profile := profileFromIdentity(&identity)

		entries = append(entries, &types.RosterEntry{
			UserProfile:  profile,
			CompanyCount: counts[profile.ID],
			// A row whose document held an empty list still counts as data.
			HasData: counts[profile.ID] > 0 || present[profile.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

// profileFromIdentity flattens a Kratos identity into the roster profile.
// Traits and metadata are schemaless on the wire, absent or mistyped fields
// are skipped rather than failing the whole listing.
func profileFromIdentity(identity *ory.Identity) types.UserProfile {
	profile := types.UserProfile{ID: identity.Id}

	if identity.CreatedAt != nil {
		profile.CreatedAt = *identity.CreatedAt
	}
	if identity.State != nil {
		profile.ProfileStatus = *identity.State
	}

	if traits, ok := identity.Traits.(map[string]interface{}); ok {
		if email, ok := traits["email"].(string); ok {
			profile.Email = email
		}
		if name, ok := traits["name"].(string); ok {
			profile.FullName = name
		}
		if role, ok := traits["role"].(string); ok {
			profile.Role = role
		}
	}

	if meta, ok := identity.MetadataPublic.(map[string]interface{}); ok {
		if raw, ok := meta["onboarding_completed_at"].(string); ok {
			if completedAt, err := time.Parse(time.RFC3339, raw); err == nil {
				profile.OnboardingCompletedAt = &completedAt
			}
		}
	}

	return profile
}
