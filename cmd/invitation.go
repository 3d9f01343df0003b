// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/explorer-service/pkg/invitations"
)

var invitationCmd = &cobra.Command{
	Use:   "invitation",
	Short: "Manage invitations",
}

var createInvitationCmd = &cobra.Command{
	Use:   "create [email] [full-name]",
	Short: "Issue an invitation for a prospective user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := getClient()

		req := invitations.IssueInvitationRequest{
			Email:    args[0],
			FullName: args[1],
		}
		var resp invitations.IssueInvitationResponse
		if err := client.doRequest(cmd.Context(), http.MethodPost, "/invitations", req, &resp); err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}

		fmt.Printf("Invitation created for %s (ID: %s)\n", resp.Invitation.Email, resp.Invitation.ID)
		fmt.Printf("Invite link: %s\n", resp.InviteLink)
		fmt.Printf("Expires at: %s\n", resp.Invitation.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

var getInvitationCmd = &cobra.Command{
	Use:   "get [token]",
	Short: "Verify an invitation token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := getClient()

		var resp invitations.GetInvitationResponse
		if err := client.doRequest(cmd.Context(), http.MethodGet, "/invitations/"+args[0], nil, &resp); err != nil {
			return fmt.Errorf("failed to get invitation: %w", err)
		}

		fmt.Printf("Invitation for %s (%s)\n", resp.Invitation.Email, resp.Invitation.FullName)
		fmt.Printf("Invited by: %s\n", resp.Invitation.InvitedBy)
		fmt.Printf("Expires at: %s\n", resp.Invitation.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

var acceptInvitationCmd = &cobra.Command{
	Use:   "accept [token]",
	Short: "Accept an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := getClient()

		var resp invitations.AcceptInvitationResponse
		if err := client.doRequest(cmd.Context(), http.MethodPost, "/invitations/"+args[0]+"/accept", nil, &resp); err != nil {
			return fmt.Errorf("failed to accept invitation: %w", err)
		}

		fmt.Printf("%s (%s)\n", resp.Message, resp.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invitationCmd)
	invitationCmd.AddCommand(createInvitationCmd)
	invitationCmd.AddCommand(getInvitationCmd)
	invitationCmd.AddCommand(acceptInvitationCmd)
}
