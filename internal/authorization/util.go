// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

const (
	ADMIN_RELATION = "admin"

	// ServiceObjectID is the single object all admin tuples attach to.
	ServiceObjectID = "explorer"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func ServiceTuple(serviceId string) string {
	return "service:" + serviceId
}
