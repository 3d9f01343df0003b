// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roster

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpTypes "github.com/canonical/explorer-service/internal/http/types"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/types"
)

type ListUsersResponse struct {
	Users []*types.RosterEntry `json:"users"`
}

type API struct {
	service ServiceInterface

	logger logging.LoggerInterface
}

func NewAPI(service ServiceInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		logger:  logger,
	}
}

// RegisterAdminEndpoints mounts the roster routes behind the given
// middleware chain.
func (a *API) RegisterAdminEndpoints(mux *chi.Mux, middleware ...func(http.Handler) http.Handler) {
	mux.With(middleware...).Get("/admin/users", a.listUsers)
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.service.ListRoster(r.Context())
	if err != nil {
		a.logger.Errorf("failed to list users: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	a.writeJSON(w, http.StatusOK, ListUsersResponse{Users: users})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, httpTypes.ErrorResponse{Status: status, Message: message})
}
