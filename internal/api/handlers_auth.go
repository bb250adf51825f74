package api

import (
	"encoding/json"
	"net/http"

	"github.com/dreamdive/dreamdive/internal/api/respond"
	"github.com/dreamdive/dreamdive/internal/api/validate"
	"github.com/dreamdive/dreamdive/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Register(in.Email, in.Password, in.Name); err != nil {
		respond.FromError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), SessionToken(r), in.Email, in.Password, in.Name)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Login(in.Email, in.Password); err != nil {
		respond.FromError(w, err)
		return
	}

	user, err := h.svc.Login(r.Context(), SessionToken(r), in.Email, in.Password)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), SessionToken(r)); err != nil {
		respond.FromError(w, err)
		return
	}
	ClearCookie(w)
	respond.WriteJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), SessionToken(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}
