// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/explorer-service/internal/analytics"
	"github.com/canonical/explorer-service/internal/db"
	"github.com/canonical/explorer-service/internal/kratos"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/storage"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/pkg/invitations"
	"github.com/canonical/explorer-service/pkg/metrics"
	"github.com/canonical/explorer-service/pkg/roster"
	"github.com/canonical/explorer-service/pkg/status"
	"github.com/canonical/explorer-service/pkg/webhooks"
)

func NewRouter(
	s storage.StorageInterface,
	dbClient db.DBClientInterface,
	kratosClient kratos.ClientInterface,
	emitter analytics.EmitterInterface,
	baseURL string,
	invitationLifetime time.Duration,
	adminMiddleware []func(http.Handler) http.Handler,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
		db.TransactionMiddleware(dbClient, logger),
	)

	router.Use(middlewares...)

	invitationsAPI := invitations.NewAPI(
		invitations.NewService(s, kratosClient, emitter, baseURL, invitationLifetime, tracer, monitor, logger),
		logger,
	)
	rosterAPI := roster.NewAPI(
		roster.NewService(s, kratosClient, tracer, monitor, logger),
		logger,
	)
	webhooksAPI := webhooks.NewAPI(
		webhooks.NewService(s, emitter, tracer, monitor, logger),
		logger,
	)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)

	invitationsAPI.RegisterEndpoints(router)
	invitationsAPI.RegisterAdminEndpoints(router, adminMiddleware...)
	rosterAPI.RegisterAdminEndpoints(router, adminMiddleware...)
	webhooksAPI.RegisterEndpoints(router)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
