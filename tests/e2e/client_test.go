// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/canonical/explorer-service/pkg/invitations"
	"github.com/canonical/explorer-service/pkg/roster"
	"github.com/canonical/explorer-service/pkg/webhooks"
)

var (
	cachedToken string
	tokenExpiry time.Time
	tokenMutex  sync.RWMutex
)

// getAuthToken returns a JWT token either from environment or by exchanging client credentials.
// Tokens are cached to avoid unnecessary token endpoint requests.
func getAuthToken(ctx context.Context) (string, error) {
	// Check cache first (read lock)
	tokenMutex.RLock()
	if cachedToken != "" && time.Now().Before(tokenExpiry) {
		defer tokenMutex.RUnlock()
		return cachedToken, nil
	}
	tokenMutex.RUnlock()

	// Acquire write lock for token refresh
	tokenMutex.Lock()
	defer tokenMutex.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if cachedToken != "" && time.Now().Before(tokenExpiry) {
		return cachedToken, nil
	}

	// Use JWT token from environment if provided
	if token := os.Getenv("JWT_TOKEN"); token != "" {
		// JWT tokens from env should also be cached, set reasonable cache duration
		cachedToken = token
		tokenExpiry = time.Now().Add(5 * time.Minute)
		return token, nil
	}

	// Otherwise, use client credentials from env or test globals
	cID := os.Getenv("CLIENT_ID")
	if cID == "" {
		cID = clientId
	}
	cSecret := os.Getenv("CLIENT_SECRET")
	if cSecret == "" {
		cSecret = clientSecret
	}

	if cID == "" || cSecret == "" {
		return "", fmt.Errorf("no authentication credentials available")
	}

	// Exchange for token
	token, expiresIn, err := getJWTTokenWithExpiry(ctx, cID, cSecret)
	if err != nil {
		return "", err
	}

	// Cache with safety margin (refresh 60 seconds before actual expiry)
	cachedToken = token
	safetyMargin := 60
	if expiresIn > safetyMargin {
		tokenExpiry = time.Now().Add(time.Duration(expiresIn-safetyMargin) * time.Second)
	} else {
		tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}

	return token, nil
}

func testBaseURL() string {
	if baseURL := os.Getenv("HTTP_BASE_URL"); baseURL != "" {
		return baseURL
	}
	if testEnv != nil {
		return testEnv.BaseURL
	}
	return defaultBaseURL
}

// explorerClient is a minimal REST client for the service API used by the
// E2E tests. Admin calls attach a bearer token, public calls do not.
type explorerClient struct {
	baseURL string
	client  *http.Client
}

func newExplorerClient() *explorerClient {
	return &explorerClient{
		baseURL: testBaseURL(),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// apiError carries the HTTP status so tests can assert on it directly.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Body)
}

func (c *explorerClient) do(ctx context.Context, method, path string, authenticated bool, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := getAuthToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &apiError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *explorerClient) IssueInvitation(ctx context.Context, email, fullName string) (*invitations.IssueInvitationResponse, error) {
	req := invitations.IssueInvitationRequest{Email: email, FullName: fullName}
	var resp invitations.IssueInvitationResponse
	if err := c.do(ctx, http.MethodPost, "/invitations", true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *explorerClient) GetInvitation(ctx context.Context, token string) (*invitations.GetInvitationResponse, error) {
	var resp invitations.GetInvitationResponse
	if err := c.do(ctx, http.MethodGet, "/invitations/"+token, false, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *explorerClient) AcceptInvitation(ctx context.Context, token string) (*invitations.AcceptInvitationResponse, error) {
	var resp invitations.AcceptInvitationResponse
	if err := c.do(ctx, http.MethodPost, "/invitations/"+token+"/accept", false, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *explorerClient) ListUsers(ctx context.Context) (*roster.ListUsersResponse, error) {
	var resp roster.ListUsersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users", true, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *explorerClient) Registration(ctx context.Context, identityID, email, inviteToken string) error {
	event := webhooks.RegistrationEvent{}
	event.Identity.ID = identityID
	event.Identity.Traits.Email = email
	event.Transient.InviteToken = inviteToken
	return c.do(ctx, http.MethodPost, "/webhooks/registration", false, event, nil)
}
