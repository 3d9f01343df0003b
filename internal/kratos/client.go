// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/tracing"
	ory "github.com/ory/client-go"
)

const listPageSize = 250

type ClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	ListIdentities(ctx context.Context) ([]ory.Identity, error)
}

type Client struct {
	client  *ory.APIClient
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(kratosAdminURL string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: kratosAdminURL}}
	return &Client{
		client:  ory.NewAPIClient(conf),
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (c *Client) GetIdentityIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.GetIdentityIDByEmail")
	defer span.End()

	// List identities with credentials_identifier filter (email)
	// This is the standard way to search by email in Kratos Admin API
	// NOTE: we are setting an empty page token because of https://github.com/ory/sdk/issues/461
	// TODO: remove
	ids, r, err := c.client.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return "", nil // Not found
		}
		// If list returns empty but no error, it means not found too.
		// However, Kratos list API usually returns 200 OK with empty list if not found.
		return "", fmt.Errorf("failed to list identities: %w", err)
	}

	if len(ids) == 0 {
		return "", nil
	}

	// Assuming uniqueness of email
	return ids[0].Id, nil
}

// ListIdentities walks the full identity collection, following the Link
// header pagination the Kratos admin API uses.
func (c *Client) ListIdentities(ctx context.Context) ([]ory.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.ListIdentities")
	defer span.End()

	var identities []ory.Identity

	pageToken := ""
	for {
		ids, r, err := c.client.IdentityAPI.ListIdentities(ctx).PageSize(listPageSize).PageToken(pageToken).Execute()
		if err != nil {
			return nil, fmt.Errorf("failed to list identities: %w", err)
		}

		identities = append(identities, ids...)

		pageToken = nextPageToken(r)
		if pageToken == "" {
			break
		}
	}

	return identities, nil
}

// nextPageToken extracts the page_token of the rel="next" link, empty when on
// the last page.
func nextPageToken(r *http.Response) string {
	if r == nil {
		return ""
	}

	for _, link := range r.Header.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			if !strings.Contains(part, `rel="next"`) {
				continue
			}

			start := strings.Index(part, "<")
			end := strings.Index(part, ">")
			if start == -1 || end == -1 || end <= start {
				continue
			}

			u, err := url.Parse(part[start+1 : end])
			if err != nil {
				continue
			}

			return u.Query().Get("page_token")
		}
	}

	return ""
}
