// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	ory "github.com/ory/client-go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/explorer-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_roster.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func testIdentity(id, email string, createdAt time.Time) ory.Identity {
	state := "active"
	return ory.Identity{
		Id:        id,
		CreatedAt: &createdAt,
		State:     &state,
		Traits: map[string]interface{}{
			"email": email,
			"name":  "User " + id,
			"role":  "user",
		},
	}
}

func TestService_ListRoster(t *testing.T) {
	now := time.Now().UTC()
	svcErr := errors.New("backend error")

	identities := []ory.Identity{
		testIdentity("user-1", "one@example.com", now.Add(-2*time.Hour)),
		testIdentity("user-2", "two@example.com", now.Add(-time.Hour)),
		testIdentity("user-3", "three@example.com", now),
	}

	records := []*types.CompanyDataRecord{
		{ID: "cd-1", UserID: "user-1", Shape: types.CompanyDocCompanies, CompanyCount: 2},
		{ID: "cd-2", UserID: "user-1", Shape: types.CompanyDocNestedProfile, CompanyCount: 1},
		{ID: "cd-3", UserID: "user-2", Shape: types.CompanyDocCompanyData, CompanyCount: 0},
	}

	testCases := []struct {
		name        string
		setupMocks  func(*MockStorageInterface, *MockKratosClientInterface, *MockLoggerInterface)
		wantErr     bool
		wantEntries int
	}{
		{
			name: "success",
			setupMocks: func(mockStorage *MockStorageInterface, mockKratos *MockKratosClientInterface, mockLogger *MockLoggerInterface) {
				mockKratos.EXPECT().ListIdentities(gomock.Any()).Return(identities, nil)
				mockStorage.EXPECT().ListCompanyData(gomock.Any()).Return(records, nil)
			},
			wantEntries: 3,
		},
		{
			name: "success - empty roster",
			setupMocks: func(mockStorage *MockStorageInterface, mockKratos *MockKratosClientInterface, mockLogger *MockLoggerInterface) {
				mockKratos.EXPECT().ListIdentities(gomock.Any()).Return(nil, nil)
				mockStorage.EXPECT().ListCompanyData(gomock.Any()).Return(nil, nil)
			},
			wantEntries: 0,
		},
		{
			name: "error - identity listing failure",
			setupMocks: func(mockStorage *MockStorageInterface, mockKratos *MockKratosClientInterface, mockLogger *MockLoggerInterface) {
				mockKratos.EXPECT().ListIdentities(gomock.Any()).Return(nil, svcErr)
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			wantErr: true,
		},
		{
			name: "error - company data failure",
			setupMocks: func(mockStorage *MockStorageInterface, mockKratos *MockKratosClientInterface, mockLogger *MockLoggerInterface) {
				mockKratos.EXPECT().ListIdentities(gomock.Any()).Return(identities, nil)
				mockStorage.EXPECT().ListCompanyData(gomock.Any()).Return(nil, svcErr)
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockKratos := NewMockKratosClientInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			s := NewService(mockStorage, mockKratos, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "roster.Service.ListRoster").Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage, mockKratos, mockLogger)

			entries, err := s.ListRoster(context.Background())

			if tc.wantErr {
				if !errors.Is(err, svcErr) {
					t.Errorf("expected error %v, got %v", svcErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entries == nil {
				t.Fatal("expected a non nil slice")
			}
			if len(entries) != tc.wantEntries {
				t.Fatalf("expected %d entries, got %d", tc.wantEntries, len(entries))
			}

			if tc.wantEntries == 0 {
				return
			}

			// Newest first.
			for i, wantID := range []string{"user-3", "user-2", "user-1"} {
				if entries[i].ID != wantID {
					t.Errorf("expected entry %d to be %s, got %s", i, wantID, entries[i].ID)
				}
			}

			byID := make(map[string]*types.RosterEntry, len(entries))
			for _, entry := range entries {
				byID[entry.ID] = entry
			}

			if e := byID["user-1"]; e.CompanyCount != 3 || !e.HasData {
				t.Errorf("expected user-1 with 3 companies and data, got %+v", e)
			}
			// A row holding an empty document still marks the user as having data.
			if e := byID["user-2"]; e.CompanyCount != 0 || !e.HasData {
				t.Errorf("expected user-2 with 0 companies and data, got %+v", e)
			}
			if e := byID["user-3"]; e.CompanyCount != 0 || e.HasData {
				t.Errorf("expected user-3 with 0 companies and no data, got %+v", e)
			}

			if byID["user-1"].Email != "one@example.com" {
				t.Errorf("expected traits email to be flattened, got %+v", byID["user-1"].UserProfile)
			}
		})
	}
}

func TestProfileFromIdentity(t *testing.T) {
	createdAt := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)
	completedAt := "2025-11-05T12:30:00Z"
	state := "active"

	testCases := []struct {
		name     string
		identity ory.Identity
		want     types.UserProfile
	}{
		{
			name: "full identity",
			identity: ory.Identity{
				Id:        "user-1",
				CreatedAt: &createdAt,
				State:     &state,
				Traits: map[string]interface{}{
					"email": "one@example.com",
					"name":  "User One",
					"role":  "admin",
				},
				MetadataPublic: map[string]interface{}{
					"onboarding_completed_at": completedAt,
				},
			},
			want: types.UserProfile{
				ID:            "user-1",
				Email:         "one@example.com",
				FullName:      "User One",
				Role:          "admin",
				ProfileStatus: "active",
				CreatedAt:     createdAt,
			},
		},
		{
			name:     "bare identity",
			identity: ory.Identity{Id: "user-2"},
			want:     types.UserProfile{ID: "user-2"},
		},
		{
			name: "mistyped traits are skipped",
			identity: ory.Identity{
				Id:     "user-3",
				Traits: "not-a-map",
			},
			want: types.UserProfile{ID: "user-3"},
		},
		{
			name: "malformed onboarding timestamp is skipped",
			identity: ory.Identity{
				Id: "user-4",
				MetadataPublic: map[string]interface{}{
					"onboarding_completed_at": "yesterday",
				},
			},
			want: types.UserProfile{ID: "user-4"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := profileFromIdentity(&tc.identity)

			if tc.name == "full identity" {
				if got.OnboardingCompletedAt == nil || got.OnboardingCompletedAt.Format(time.RFC3339) != completedAt {
					t.Errorf("expected onboarding timestamp %s, got %v", completedAt, got.OnboardingCompletedAt)
				}
				got.OnboardingCompletedAt = nil
			}

			if got != tc.want {
				t.Errorf("expected profile %+v, got %+v", tc.want, got)
			}
		})
	}
}
