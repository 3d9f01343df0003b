// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canonical/explorer-service/internal/analytics"
	"github.com/canonical/explorer-service/internal/authorization"
	"github.com/canonical/explorer-service/internal/config"
	"github.com/canonical/explorer-service/internal/db"
	"github.com/canonical/explorer-service/internal/identity"
	"github.com/canonical/explorer-service/internal/kratos"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring/prometheus"
	"github.com/canonical/explorer-service/internal/openfga"
	"github.com/canonical/explorer-service/internal/storage"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/pkg/authentication"
	"github.com/canonical/explorer-service/pkg/web"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("explorer-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	invitationLifetime, err := time.ParseDuration(specs.InvitationLifetime)
	if err != nil {
		return fmt.Errorf("invalid invitation lifetime %q: %v", specs.InvitationLifetime, err)
	}

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()
	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	var authorizer *authorization.Authorizer
	if specs.AuthorizationEnabled {
		ofga := openfga.NewClient(
			openfga.NewConfig(
				specs.OpenfgaApiScheme,
				specs.OpenfgaApiHost,
				specs.OpenfgaStoreId,
				specs.OpenfgaApiToken,
				specs.OpenfgaModelId,
				specs.Debug,
				tracer,
				monitor,
				logger,
			),
		)
		authorizer = authorization.NewAuthorizer(
			ofga,
			tracer,
			monitor,
			logger,
		)
		logger.Info("Authorization is enabled")
		if authorizer.ValidateModel(context.Background()) != nil {
			panic("Invalid authorization model provided")
		}
	} else {
		authorizer = authorization.NewAuthorizer(
			openfga.NewNoopClient(tracer, monitor, logger),
			tracer,
			monitor,
			logger,
		)
		logger.Info("Using noop authorizer")
	}

	kratosClient := kratos.NewClient(
		specs.KratosAdminURL,
		tracer,
		monitor,
		logger,
	)

	var emitter analytics.EmitterInterface
	if specs.AnalyticsEndpoint != "" {
		emitter = analytics.NewClient(specs.AnalyticsEndpoint, tracer, monitor, logger)
		logger.Info("Analytics emission is enabled")
	} else {
		emitter = analytics.NewNoopEmitter()
		logger.Info("Using noop analytics emitter")
	}

	// Admin routes resolve the caller first, then check the admin relation.
	adminMiddleware := make([]func(http.Handler) http.Handler, 0, 2)
	if specs.AuthenticationEnabled {
		verifier, err := authentication.NewJWTAuthenticator(
			context.Background(),
			specs.OIDCIssuer,
			specs.JWKSURL,
			specs.AllowedSubjects,
			specs.RequiredScope,
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create JWT authenticator: %v", err)
		}
		adminMiddleware = append(adminMiddleware, authentication.NewMiddleware(verifier, tracer, monitor, logger).Authenticate())
	} else {
		adminMiddleware = append(adminMiddleware, identity.NewMiddleware(tracer, monitor, logger).HTTPMiddleware)
		logger.Info("Using trusted identity header authentication")
	}
	adminMiddleware = append(adminMiddleware, authorization.NewMiddleware(authorizer, tracer, monitor, logger).RequireAdmin())

	router := web.NewRouter(
		s,
		dbClient,
		kratosClient,
		emitter,
		specs.InviteBaseURL,
		invitationLifetime,
		adminMiddleware,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}

func main() {
	if err := serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
