// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	httpTypes "github.com/canonical/explorer-service/internal/http/types"
	"github.com/canonical/explorer-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_roster.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package roster -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestAPI_ListUsers(t *testing.T) {
	now := time.Now().UTC()
	entries := []*types.RosterEntry{
		{
			UserProfile:  types.UserProfile{ID: "user-2", Email: "two@example.com", CreatedAt: now},
			CompanyCount: 0,
			HasData:      true,
		},
		{
			UserProfile:  types.UserProfile{ID: "user-1", Email: "one@example.com", CreatedAt: now.Add(-time.Hour)},
			CompanyCount: 3,
			HasData:      true,
		},
	}

	testCases := []struct {
		name           string
		setupMocks     func(*MockServiceInterface, *MockLoggerInterface)
		expectedStatus int
		expectedUsers  int
	}{
		{
			name: "success",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().ListRoster(gomock.Any()).Return(entries, nil)
			},
			expectedStatus: http.StatusOK,
			expectedUsers:  2,
		},
		{
			name: "success - empty roster",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().ListRoster(gomock.Any()).Return([]*types.RosterEntry{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedUsers:  0,
		},
		{
			name: "error - service failure",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().ListRoster(gomock.Any()).Return(nil, errors.New("service error"))
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			tc.setupMocks(mockService, mockLogger)

			mux := chi.NewMux()
			NewAPI(mockService, mockLogger).RegisterAdminEndpoints(mux)

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}

			if tc.expectedStatus == http.StatusOK {
				var resp ListUsersResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if len(resp.Users) != tc.expectedUsers {
					t.Errorf("expected %d users, got %d", tc.expectedUsers, len(resp.Users))
				}
				if tc.expectedUsers > 0 && resp.Users[0].ID != "user-2" {
					t.Errorf("expected first user user-2, got %s", resp.Users[0].ID)
				}
				return
			}

			var errResp httpTypes.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Status != tc.expectedStatus || errResp.Message == "" {
				t.Errorf("unexpected error response: %+v", errResp)
			}
		})
	}
}
