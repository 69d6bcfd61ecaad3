package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
)

// Service issues and verifies one-time codes for the forgot-password flow.
//
// Issue guarantees exactly one live code per identity (the store upsert
// supersedes any prior record) and commits the record before the mailer is
// called, so a slow or failed email never leaves the OTP store undefined.
//
// Verify drives the record through PENDING -> VERIFIED and opens the reset
// window. Replaying a verify against an already-verified record succeeds as
// long as the reset window is open, but never extends it.
type Service interface {
	Issue(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (*domain.OTPRecord, error)
}

type employeeStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

type otpStore interface {
	Put(ctx context.Context, v *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkVerified(ctx context.Context, email, code string, verifiedAt time.Time, resetWindowExpiresAt int64) error
}

type mailer interface {
	SendEmail(to, subject, body string) (string, error)
}

type service struct {
	otpRepo      otpStore
	employeeRepo employeeStore
	mailer       mailer
	ttl          time.Duration
	resetWindow  time.Duration
}

type ServiceDeps struct {
	OTPRepo      otpStore
	EmployeeRepo employeeStore
	Mailer       mailer
	TTL          time.Duration
	ResetWindow  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otpRepo:      deps.OTPRepo,
		employeeRepo: deps.EmployeeRepo,
		mailer:       deps.Mailer,
		ttl:          deps.TTL,
		resetWindow:  deps.ResetWindow,
	}
}

func (s *service) Issue(ctx context.Context, email string) error {
	e, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if !e.Enable {
		return fmt.Errorf("account disabled: %w", domain.ErrNotFound)
	}

	code, err := newCode()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := &domain.OTPRecord{
		Email:     e.Email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	// Commit the record first; the mailer call must not gate store state.
	if err := s.otpRepo.Put(ctx, rec); err != nil {
		return err
	}

	msgID, err := s.mailer.SendEmail(e.Email, "Password Recovery OTP",
		fmt.Sprintf("Your one-time code is %s. It expires in %d minutes.", code, int(s.ttl.Minutes())))
	if err != nil {
		// Record exists; the caller must surface delivery failure distinctly
		// so the user is never told the code was sent.
		slog.Error("otp delivery failed", "op", "otp.Issue", "email", e.Email, "err", err)
		return err
	}
	slog.Info("otp issued", "op", "otp.Issue", "email", e.Email, "message_id", msgID)
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (*domain.OTPRecord, error) {
	if code == "" {
		return nil, fmt.Errorf("code required: %w", domain.ErrInvalidInput)
	}
	rec, err := s.otpRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("otp not found or expired: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	now := time.Now().UTC()

	if rec.Verified {
		// Replay of a successful verify: harmless while the reset window is
		// open, but the window's upper bound stays fixed at first
		// verification.
		if code != rec.Code {
			return nil, fmt.Errorf("invalid code: %w", domain.ErrMismatch)
		}
		if now.Unix() > rec.ResetWindowExpiresAt {
			return nil, fmt.Errorf("reset window elapsed: %w", domain.ErrExpired)
		}
		return rec, nil
	}

	// An expired record is inert even when the code would have matched.
	if now.Unix() > rec.ExpiresAt {
		return nil, fmt.Errorf("otp expired: %w", domain.ErrExpired)
	}
	if code != rec.Code {
		// No mutation: the caller may retry until the TTL elapses.
		return nil, fmt.Errorf("invalid code: %w", domain.ErrMismatch)
	}

	windowEnd := now.Add(s.resetWindow).Unix()
	err = s.otpRepo.MarkVerified(ctx, email, code, now, windowEnd)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race against a concurrent verify (or a re-issue). Accept
			// the winner's state when it matches this code.
			return s.reloadVerified(ctx, email, code, now)
		}
		return nil, err
	}

	rec.Verified = true
	rec.VerifiedAt = &now
	rec.ResetWindowExpiresAt = windowEnd
	slog.Info("otp verified", "op", "otp.Verify", "email", email)
	return rec, nil
}

// reloadVerified resolves a conditional-update race by re-reading the record.
// Double-verify of the same code is idempotent; anything else means the
// record was superseded.
func (s *service) reloadVerified(ctx context.Context, email, code string, now time.Time) (*domain.OTPRecord, error) {
	rec, err := s.otpRepo.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("otp not found or expired: %w", domain.ErrNotFound)
	}
	if !rec.Verified || rec.Code != code {
		return nil, fmt.Errorf("invalid code: %w", domain.ErrMismatch)
	}
	if now.Unix() > rec.ResetWindowExpiresAt {
		return nil, fmt.Errorf("reset window elapsed: %w", domain.ErrExpired)
	}
	return rec, nil
}

// newCode draws a 6-digit numeric code from crypto/rand. With a 5 minute TTL
// the guess-space/TTL ratio matches the issuing policy the verifier assumes.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
