// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

type Invitation struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	InvitedBy string    `db:"invited_by" json:"invited_by,omitempty"`
	Token     string    `db:"token" json:"token"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// CompanyDocShape identifies the generation of the document a company_data
// row carries. The table accumulated three different layouts over time.
type CompanyDocShape string

const (
	CompanyDocUnknown       CompanyDocShape = "unknown"
	CompanyDocCompanies     CompanyDocShape = "companies"
	CompanyDocCompanyData   CompanyDocShape = "company_data"
	CompanyDocNestedProfile CompanyDocShape = "user_profile"
)

// CompanyDataRecord is a company_data row with its document already
// classified and counted. The raw payload never leaves the storage layer.
type CompanyDataRecord struct {
	ID           string          `db:"id"`
	UserID       string          `db:"user_id"`
	Shape        CompanyDocShape `db:"-"`
	CompanyCount int             `db:"-"`
	CreatedAt    time.Time       `db:"created_at"`
}

type UserProfile struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	FullName              string     `json:"full_name,omitempty"`
	Role                  string     `json:"role,omitempty"`
	ProfileStatus         string     `json:"profile_status,omitempty"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

// RosterEntry is a user profile joined with the summary of its company data.
type RosterEntry struct {
	UserProfile

	CompanyCount int  `json:"company_count"`
	HasData      bool `json:"has_data"`
}

type AnalyticsEvent struct {
	Name       string                 `json:"event"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}
