package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without
// leaking infrastructure details. Credential mismatches always surface as
// ErrInvalidCredentials so responses never reveal which field was wrong.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")

	// ErrInvalidCredentials covers both unknown identity and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMismatch means a submitted code did not match the stored one; the
	// record is untouched and the caller may retry until the TTL elapses.
	ErrMismatch = errors.New("code mismatch")

	// ErrExpired covers both the OTP TTL and the reset window; terminal,
	// the caller must restart from issuance.
	ErrExpired = errors.New("expired")

	// ErrNotVerified means a reset was attempted against an OTP that never
	// passed verification.
	ErrNotVerified = errors.New("otp not verified")

	// ErrAlreadyUsed means the OTP was consumed by a completed reset.
	ErrAlreadyUsed = errors.New("otp already used")

	ErrMailerUnavailable  = errors.New("mailer unavailable")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
