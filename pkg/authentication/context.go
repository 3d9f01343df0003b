// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import "context"

type contextKey struct{}

var userContextKey = contextKey{}

// WithUserID stores the caller identity on the context. The JWT middleware
// and the trusted-header middleware both write through this helper so
// handlers resolve the caller the same way in either deployment mode.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// GetUserID retrieves the caller identity from the context.
// Returns an empty string and false if no middleware set one.
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userContextKey).(string)
	return id, ok
}
