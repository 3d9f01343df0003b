// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/explorer-service/pkg/roster"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect the user roster",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users with their company data summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := getClient()

		var resp roster.ListUsersResponse
		if err := client.doRequest(cmd.Context(), http.MethodGet, "/admin/users", nil, &resp); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tSTATUS\tCOMPANIES\tHAS DATA\tCREATED AT")
		for _, user := range resp.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%t\t%s\n",
				user.ID,
				user.Email,
				user.FullName,
				user.Role,
				user.ProfileStatus,
				user.CompanyCount,
				user.HasData,
				user.CreatedAt.Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(listUsersCmd)
}
