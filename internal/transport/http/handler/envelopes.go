package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login responses. MustRotate is set (and the token fields
// empty) when the password matched but a forced rotation is pending.
type AuthEnvelope struct {
	AccessToken string           `json:"access_token,omitempty"`
	MustRotate  bool             `json:"must_rotate,omitempty"`
	Session     *domain.Session  `json:"session,omitempty"`
	Employee    *domain.Employee `json:"employee,omitempty"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// AdminAuthEnvelope wraps admin login responses.
type AdminAuthEnvelope struct {
	AccessToken string          `json:"access_token,omitempty"`
	Session     *domain.Session `json:"session,omitempty"`
	Admin       *domain.Admin   `json:"admin,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
