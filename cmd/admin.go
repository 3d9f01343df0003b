// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/explorer-service/internal/authorization"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/openfga"
	"github.com/canonical/explorer-service/internal/tracing"
)

// adminCmd manages the admin relation directly against openfga, for
// operators without an admin identity to call the HTTP API with.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage service admins",
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant [identity-id]",
	Short: "Grant the admin relation to an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		authorizer, err := newAdminAuthorizer(cmd)
		if err != nil {
			return err
		}

		if err := authorizer.AssignAdmin(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to assign admin: %w", err)
		}

		fmt.Printf("Assigned admin: %s\n", args[0])
		return nil
	},
}

var revokeAdminCmd = &cobra.Command{
	Use:   "revoke [identity-id]",
	Short: "Revoke the admin relation from an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		authorizer, err := newAdminAuthorizer(cmd)
		if err != nil {
			return err
		}

		if err := authorizer.RemoveAdmin(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to remove admin: %w", err)
		}

		fmt.Printf("Removed admin: %s\n", args[0])
		return nil
	},
}

var listAdminsCmd = &cobra.Command{
	Use:   "list",
	Short: "List identities holding the admin relation",
	RunE: func(cmd *cobra.Command, args []string) error {
		authorizer, err := newAdminAuthorizer(cmd)
		if err != nil {
			return err
		}

		admins, err := authorizer.ListAdmins(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list admins: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "IDENTITY ID")
		for _, admin := range admins {
			fmt.Fprintf(w, "%s\n", admin)
		}
		return w.Flush()
	},
}

func newAdminAuthorizer(cmd *cobra.Command) (*authorization.Authorizer, error) {
	apiUrl, _ := cmd.Flags().GetString("fga-api-url")
	apiToken, _ := cmd.Flags().GetString("fga-api-token")
	storeId, _ := cmd.Flags().GetString("fga-store-id")
	modelId, _ := cmd.Flags().GetString("fga-model-id")

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("", logger)

	scheme, host, err := parseURL(apiUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	cfg := openfga.Config{
		ApiScheme:   scheme,
		ApiHost:     host,
		StoreID:     storeId,
		ApiToken:    apiToken,
		AuthModelID: modelId,
		Debug:       false,
		Tracer:      tracer,
		Monitor:     monitor,
		Logger:      logger,
	}

	return authorization.NewAuthorizer(openfga.NewClient(&cfg), tracer, monitor, logger), nil
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(grantAdminCmd)
	adminCmd.AddCommand(revokeAdminCmd)
	adminCmd.AddCommand(listAdminsCmd)

	adminCmd.PersistentFlags().String("fga-api-url", "", "The openfga API URL")
	adminCmd.PersistentFlags().String("fga-api-token", "", "The openfga API token")
	adminCmd.PersistentFlags().String("fga-store-id", "", "The openfga store holding the admin tuples")
	adminCmd.PersistentFlags().String("fga-model-id", "", "The openfga authorization model ID")
	adminCmd.MarkPersistentFlagRequired("fga-api-url")
	adminCmd.MarkPersistentFlagRequired("fga-api-token")
	adminCmd.MarkPersistentFlagRequired("fga-store-id")
}
