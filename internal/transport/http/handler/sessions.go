package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/auth"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/credential"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/validate"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/transport/http/middleware"
)

// SessionHandler handles login, logout and the forced password change.
type SessionHandler struct {
	authService       auth.Service
	credentialService credential.Service
}

func NewSessionHandler(authService auth.Service, credentialService credential.Service) *SessionHandler {
	return &SessionHandler{authService: authService, credentialService: credentialService}
}

type changePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Login authenticates an employee. A pending forced rotation returns 200 with
// must_rotate set and no token, so the client can route to the change-password
// screen without treating it as a failure.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.authService.Authenticate(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	if res.MustRotate {
		writeJSON(w, http.StatusOK, AuthEnvelope{
			MustRotate: true,
			Message:    "password change required before a session can be issued",
		})
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken: res.Bearer,
		Session:     res.Session,
		Employee:    res.Employee,
	})
}

func (h *SessionHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.authService.AdminAuthenticate(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdminAuthEnvelope{
		AccessToken: res.Bearer,
		Session:     res.Session,
		Admin:       res.Admin,
	})
}

// ChangePassword rotates a password given knowledge of the current one. It is
// public on purpose: the forced first-login rotation happens before any
// session exists.
func (h *SessionHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.credentialService.ChangePassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		httpError(w, err)
		return
	}
	slog.Info("password changed", "op", "change-password", "email", req.Email)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password changed"})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}
	if err := h.authService.Logout(r.Context(), claims.SessionID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
