package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/service"
	"github.com/aussiebroadwan/twitchauth/pkg/httpx"
	"github.com/aussiebroadwan/twitchauth/pkg/slogx"
)

// UnitsHandler serves the seeding endpoints that register clients and users
// for the other endpoints to operate on.
type UnitsHandler struct {
	UnitsService *service.UnitsService
}

type createClientRequest struct {
	Name string `json:"name"`
}

type createClientResponse struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
	Name     string `json:"name"`
}

func (h *UnitsHandler) HandleCreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	client, err := h.UnitsService.RegisterClient(ctx, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		log.Error("client registration failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createClientResponse{
		ClientID: client.ID,
		Secret:   client.Secret,
		Name:     client.Name,
	})
}

type createUserRequest struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type createUserResponse struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

func (h *UnitsHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.UnitsService.RegisterUser(ctx, req.ID, req.Login)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "login is required")
		case errors.Is(err, service.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "user already exists")
		default:
			log.Error("user registration failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createUserResponse{
		ID:    user.ID,
		Login: user.Login,
	})
}
