// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpTypes "github.com/canonical/explorer-service/internal/http/types"
	"github.com/canonical/explorer-service/internal/logging"
)

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

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/webhooks/registration", a.registration)
}

func (a *API) registration(w http.ResponseWriter, r *http.Request) {
	var event RegistrationEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		a.logger.Errorf("failed to decode registration event: %v", err)
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.logger.Debugf("received registration webhook for identity %s", event.Identity.ID)

	if err := a.service.HandleRegistration(r.Context(), event.Identity.ID, event.Identity.Traits.Email, event.Transient.InviteToken); err != nil {
		a.logger.Errorf("failed to handle registration: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to handle registration")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(httpTypes.ErrorResponse{Status: status, Message: message}); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}
