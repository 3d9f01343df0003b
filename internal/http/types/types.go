// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

// ErrorResponse is the standard json body returned on any non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
