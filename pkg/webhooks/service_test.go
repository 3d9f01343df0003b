// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/explorer-service/internal/storage"
	"github.com/canonical/explorer-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_webhooks.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestService_HandleRegistration(t *testing.T) {
	identityID := "identity-123"
	email := "user@example.com"
	inviteToken := "tok-123"
	invitation := &types.Invitation{ID: "inv-1", Email: email, Token: inviteToken, Used: true}
	dbErr := errors.New("db error")

	expectPublish := func(mockEmitter *MockEmitterInterface, wantInvited bool) {
		mockEmitter.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
			func(ctx context.Context, event *types.AnalyticsEvent) {
				if event.Name != "account_created" {
					t.Errorf("expected event account_created, got %s", event.Name)
				}
				if event.Properties["identity_id"] != identityID || event.Properties["email"] != email {
					t.Errorf("unexpected event properties: %v", event.Properties)
				}
				if event.Properties["invited"] != wantInvited {
					t.Errorf("expected invited %t, got %v", wantInvited, event.Properties["invited"])
				}
			},
		)
	}

	testCases := []struct {
		name        string
		identityID  string
		email       string
		inviteToken string
		setupMocks  func(*MockStorageInterface, *MockEmitterInterface, *MockLoggerInterface)
		expectedErr bool
	}{
		{
			name:        "success - consumed by token",
			identityID:  identityID,
			email:       email,
			inviteToken: inviteToken,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().ConsumeInvitationByToken(gomock.Any(), inviteToken).Return(invitation, nil)
				expectPublish(mockEmitter, true)
			},
		},
		{
			name:        "success - unknown token falls back to email",
			identityID:  identityID,
			email:       email,
			inviteToken: inviteToken,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().ConsumeInvitationByToken(gomock.Any(), inviteToken).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().ConsumeInvitationByEmail(gomock.Any(), email).Return(invitation, nil)
				expectPublish(mockEmitter, true)
			},
		},
		{
			name:       "success - no token consumes by email",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().ConsumeInvitationByEmail(gomock.Any(), email).Return(invitation, nil)
				expectPublish(mockEmitter, true)
			},
		},
		{
			name:       "success - no matching invitation",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().ConsumeInvitationByEmail(gomock.Any(), email).Return(nil, storage.ErrNotFound)
				expectPublish(mockEmitter, false)
			},
		},
		{
			name:        "success - token consume failure does not block",
			identityID:  identityID,
			email:       email,
			inviteToken: inviteToken,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().ConsumeInvitationByToken(gomock.Any(), inviteToken).Return(nil, dbErr)
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
				expectPublish(mockEmitter, false)
			},
		},
		{
			name:       "success - email consume failure does not block",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().ConsumeInvitationByEmail(gomock.Any(), email).Return(nil, dbErr)
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
				expectPublish(mockEmitter, false)
			},
		},
		{
			name:       "error - empty identity id",
			identityID: "",
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expectedErr: true,
		},
		{
			name:       "error - empty email",
			identityID: identityID,
			email:      "",
			setupMocks: func(mockStorage *MockStorageInterface, mockEmitter *MockEmitterInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockEmitter := NewMockEmitterInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			s := NewService(mockStorage, mockEmitter, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "webhooks.Service.HandleRegistration").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage, mockEmitter, mockLogger)

			err := s.HandleRegistration(context.Background(), tc.identityID, tc.email, tc.inviteToken)

			if tc.expectedErr {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
