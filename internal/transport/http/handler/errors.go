package handler

import (
	"errors"
	"net/http"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
)

// httpError maps domain sentinel errors onto HTTP status codes. The error
// message going to the client is the sentinel text, never the wrapped detail,
// so infrastructure context stays in the logs.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrMismatch),
		errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrNotVerified):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyUsed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMailerUnavailable):
		writeError(w, http.StatusBadGateway, "could not deliver email")
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
