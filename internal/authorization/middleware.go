// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"encoding/json"
	"net/http"

	httpTypes "github.com/canonical/explorer-service/internal/http/types"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/pkg/authentication"
)

type Middleware struct {
	authorizer AuthorizerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// RequireAdmin rejects any request whose authenticated caller does not hold
// the admin relation on the service. It expects an upstream middleware to
// have already placed the caller ID on the context.
func (m *Middleware) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authorization.Middleware.RequireAdmin")
			defer span.End()

			userID, ok := authentication.GetUserID(ctx)
			if !ok || userID == "" {
				m.writeError(w, http.StatusUnauthorized, "missing caller identity")
				return
			}

			allowed, err := m.authorizer.CheckAdmin(ctx, userID)
			if err != nil {
				m.logger.Errorf("failed to check admin access for %s: %s", userID, err)
				m.writeError(w, http.StatusInternalServerError, "failed to check admin access")
				return
			}

			if !allowed {
				m.logger.Security().AuthzFailure(userID, ServiceTuple(ServiceObjectID))
				m.writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(httpTypes.ErrorResponse{Status: status, Message: message})
}

func NewMiddleware(authorizer AuthorizerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	middleware := new(Middleware)
	middleware.authorizer = authorizer
	middleware.tracer = tracer
	middleware.monitor = monitor
	middleware.logger = logger

	return middleware
}
