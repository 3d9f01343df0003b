// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	httpTypes "github.com/canonical/explorer-service/internal/http/types"
	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/types"
	"github.com/canonical/explorer-service/pkg/authentication"
)

// invalidInvitationMessage is returned for unknown, used and expired tokens
// alike so responses do not leak which case occurred.
const invalidInvitationMessage = "invalid or expired invitation"

type IssueInvitationRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
}

type IssueInvitationResponse struct {
	Invitation *types.Invitation `json:"invitation"`
	InviteLink string            `json:"invite_link"`
	Message    string            `json:"message"`
}

type GetInvitationResponse struct {
	Invitation *types.Invitation `json:"invitation"`
}

type AcceptInvitationResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type API struct {
	service  ServiceInterface
	validate *validator.Validate

	logger logging.LoggerInterface
}

func NewAPI(service ServiceInterface, logger logging.LoggerInterface) *API {
	return &API{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterEndpoints mounts the public invitation routes, the token is the
// only credential they require.
func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/invitations/{token}", a.getInvitation)
	mux.Post("/invitations/{token}/accept", a.acceptInvitation)
}

// RegisterAdminEndpoints mounts issuance behind the given middleware chain.
func (a *API) RegisterAdminEndpoints(mux *chi.Mux, middleware ...func(http.Handler) http.Handler) {
	mux.With(middleware...).Post("/invitations", a.issueInvitation)
}

func (a *API) issueInvitation(w http.ResponseWriter, r *http.Request) {
	inviterID, _ := authentication.GetUserID(r.Context())

	var req IssueInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Errorf("failed to decode invitation request: %v", err)
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "a valid email and full name are required")
		return
	}

	invitation, link, err := a.service.IssueInvitation(r.Context(), req.Email, req.FullName, inviterID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRegistered):
			a.writeError(w, http.StatusBadRequest, ErrEmailRegistered.Error())
		case errors.Is(err, ErrInvitationPending):
			a.writeError(w, http.StatusConflict, ErrInvitationPending.Error())
		default:
			a.logger.Errorf("failed to issue invitation: %v", err)
			a.writeError(w, http.StatusInternalServerError, "failed to issue invitation")
		}
		return
	}

	a.writeJSON(w, http.StatusOK, IssueInvitationResponse{
		Invitation: invitation,
		InviteLink: link,
		Message:    "invitation created",
	})
}

func (a *API) getInvitation(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	invitation, err := a.service.GetInvitation(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound):
			a.writeError(w, http.StatusNotFound, invalidInvitationMessage)
		case errors.Is(err, ErrInvitationExpired):
			a.writeError(w, http.StatusBadRequest, invalidInvitationMessage)
		default:
			a.logger.Errorf("failed to get invitation: %v", err)
			a.writeError(w, http.StatusInternalServerError, "failed to get invitation")
		}
		return
	}

	a.writeJSON(w, http.StatusOK, GetInvitationResponse{Invitation: invitation})
}

func (a *API) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	email, err := a.service.AcceptInvitation(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound):
			a.writeError(w, http.StatusNotFound, invalidInvitationMessage)
		default:
			a.logger.Errorf("failed to accept invitation: %v", err)
			a.writeError(w, http.StatusInternalServerError, "failed to accept invitation")
		}
		return
	}

	a.writeJSON(w, http.StatusOK, AcceptInvitationResponse{
		Message: "invitation accepted",
		Email:   email,
	})
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
