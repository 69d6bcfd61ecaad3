package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/credential"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/otp"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/validate"
)

// PasswordRecoveryHandler drives the forgot-password flow: request a code,
// verify it, reset the password inside the verification window.
type PasswordRecoveryHandler struct {
	otpService        otp.Service
	credentialService credential.Service
}

func NewPasswordRecoveryHandler(otpService otp.Service, credentialService credential.Service) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{otpService: otpService, credentialService: credentialService}
}

type recoveryRequestBody struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyCodeBody struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type resetBody struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *PasswordRecoveryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		h.request(w, r)
	case "verify-code":
		h.verifyCode(w, r)
	case "reset":
		h.reset(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// request issues an OTP. Unknown and disabled accounts get the same answer as
// known ones so the endpoint cannot be used to enumerate employees. Delivery
// failures are surfaced: a client told "code sent" must actually get a code.
func (h *PasswordRecoveryHandler) request(w http.ResponseWriter, r *http.Request) {
	var body recoveryRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.otpService.Issue(r.Context(), body.Email); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			slog.Info("otp request for unknown or disabled account", "op", "recovery-request", "email", body.Email)
			writeJSON(w, http.StatusOK, MessageEnvelope{Message: "a code was sent if the account exists"})
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "a code was sent if the account exists"})
}

func (h *PasswordRecoveryHandler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var body verifyCodeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.otpService.Verify(r.Context(), body.Email, body.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message              string `json:"message"`
		ResetWindowExpiresAt int64  `json:"reset_window_expires_at"`
	}{
		Message:              "code verified",
		ResetWindowExpiresAt: rec.ResetWindowExpiresAt,
	})
}

func (h *PasswordRecoveryHandler) reset(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.credentialService.ResetViaOTP(r.Context(), body.Email, body.NewPassword); err != nil {
		httpError(w, err)
		return
	}
	slog.Info("password reset completed", "op", "recovery-reset", "email", body.Email)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password reset"})
}
