// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

// RegistrationEvent is the post-registration payload Kratos delivers. The
// transient payload carries client-supplied data that never lands on the
// identity itself.
type RegistrationEvent struct {
	Identity  RegistrationIdentity  `json:"identity"`
	Transient RegistrationTransient `json:"transient_payload"`
}

type RegistrationIdentity struct {
	ID     string             `json:"id"`
	Traits RegistrationTraits `json:"traits"`
}

type RegistrationTraits struct {
	Email string `json:"email"`
}

type RegistrationTransient struct {
	InviteToken string `json:"invite_token"`
}
