package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/id"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/password"
)

// DynamoDB attribute names used in partial update maps. Rotation writes a
// closed field set; nothing here accepts an open-ended patch.
const (
	fieldPasswordHash         = "password_hash"
	fieldForcePasswordChange  = "force_password_change"
	fieldLastPasswordChangeAt = "last_password_change_at"
)

const minPasswordLength = 8

// Service owns the credential half of the lifecycle: issuing temporary
// passwords at account creation, the forgot-password reset (keyed by a
// verified OTP) and the forced first-login change (keyed by knowledge of the
// temporary password). Both rotation paths end in the same invariant: new
// hash stored, force flag cleared, rotation timestamp set.
type Service interface {
	CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error)
	ResetCredentials(ctx context.Context, employeeID string) error
	ResetViaOTP(ctx context.Context, email, newPassword string) error
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error
}

type employeeStore interface {
	Get(ctx context.Context, employeeID string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	Put(ctx context.Context, e *domain.Employee) error
	Update(ctx context.Context, employeeID string, updates map[string]interface{}) error
}

type otpStore interface {
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	DeleteVerified(ctx context.Context, email string) error
}

type sessionStore interface {
	DisableByUser(ctx context.Context, userID string) error
}

type mailer interface {
	SendEmail(to, subject, body string) (string, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	employeeRepo employeeStore
	otpRepo      otpStore
	sessionRepo  sessionStore
	mailer       mailer
	smsSender    smsSender
	tempLength   int
}

type ServiceDeps struct {
	EmployeeRepo       employeeStore
	OTPRepo            otpStore
	SessionRepo        sessionStore
	Mailer             mailer
	SMSSender          smsSender // optional
	TempPasswordLength int
}

func NewService(deps ServiceDeps) Service {
	return &service{
		employeeRepo: deps.EmployeeRepo,
		otpRepo:      deps.OTPRepo,
		sessionRepo:  deps.SessionRepo,
		mailer:       deps.Mailer,
		smsSender:    deps.SMSSender,
		tempLength:   deps.TempPasswordLength,
	}
}

// CreateEmployee provisions an account with a generated temporary password
// and force_password_change set, then mails the credentials. When the mail
// fails the account still exists; the error is surfaced so the caller never
// reports delivery that did not happen.
func (s *service) CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error) {
	if _, err := s.employeeRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		// A storage fault is not proof of availability.
		return nil, fmt.Errorf("email availability check: %w", err)
	}

	temp, err := password.Temporary(s.tempLength)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(temp)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := &domain.Employee{
		EmployeeID:          id.New(),
		Email:               req.Email,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		NIC:                 req.NIC,
		Designation:         req.Designation,
		Phone:               req.Phone,
		PasswordHash:        hash,
		ForcePasswordChange: true,
		Enable:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.employeeRepo.Put(ctx, e); err != nil {
		return nil, err
	}

	if err := s.sendTempPassword(e, temp); err != nil {
		return e, err
	}
	return e, nil
}

// ResetCredentials is the administrator-issued reset: a fresh temporary
// password replaces the current one and the force flag is set again.
func (s *service) ResetCredentials(ctx context.Context, employeeID string) error {
	e, err := s.employeeRepo.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	temp, err := password.Temporary(s.tempLength)
	if err != nil {
		return err
	}
	hash, err := password.Hash(temp)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		fieldPasswordHash:        hash,
		fieldForcePasswordChange: true,
	}
	if err := s.employeeRepo.Update(ctx, e.EmployeeID, updates); err != nil {
		return err
	}
	s.revokeSessions(ctx, e.EmployeeID)
	return s.sendTempPassword(e, temp)
}

// ResetViaOTP performs the forgot-password rotation. It requires a verified
// OTP whose reset window is still open. The credential write is confirmed
// before the OTP is deleted: a crash between the two leaves a retryable OTP,
// never a consumed one with no credential change.
func (s *service) ResetViaOTP(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, domain.ErrInvalidInput)
	}

	rec, err := s.otpRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("otp not found or expired: %w", domain.ErrNotFound)
		}
		return err
	}
	if !rec.Verified {
		return fmt.Errorf("otp has not been verified: %w", domain.ErrNotVerified)
	}
	now := time.Now().UTC()
	if now.Unix() > rec.ResetWindowExpiresAt {
		return fmt.Errorf("reset window elapsed: %w", domain.ErrExpired)
	}

	e, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.rotate(ctx, e.EmployeeID, hash, now); err != nil {
		return err
	}

	// Single use: consume the OTP only after the credential write confirmed.
	// The conditional delete makes sure only one of two racing resets wins.
	if err := s.otpRepo.DeleteVerified(ctx, email); err != nil {
		if errors.Is(err, domain.ErrAlreadyUsed) {
			return err
		}
		slog.Warn("could not delete consumed otp", "op", "credential.ResetViaOTP", "email", email, "err", err)
	}

	s.revokeSessions(ctx, e.EmployeeID)
	s.sendChangeAlert(ctx, e)
	slog.Info("password reset via otp", "op", "credential.ResetViaOTP", "email", email)
	return nil
}

// ChangePassword is the forced first-login rotation: possession of the
// current (temporary) password stands in for the OTP. It never touches the
// OTP store.
func (s *service) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, domain.ErrInvalidInput)
	}
	e, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}
	if !password.Verify(currentPassword, e.PasswordHash) {
		return fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}
	if password.Verify(newPassword, e.PasswordHash) {
		return fmt.Errorf("new password must differ from the current one: %w", domain.ErrInvalidInput)
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.rotate(ctx, e.EmployeeID, hash, time.Now().UTC()); err != nil {
		return err
	}
	s.revokeSessions(ctx, e.EmployeeID)
	s.sendChangeAlert(ctx, e)
	slog.Info("password changed", "op", "credential.ChangePassword", "email", email)
	return nil
}

// rotate writes the shared rotation invariant: new hash, force flag cleared,
// rotation timestamp set.
func (s *service) rotate(ctx context.Context, employeeID, hash string, now time.Time) error {
	return s.employeeRepo.Update(ctx, employeeID, map[string]interface{}{
		fieldPasswordHash:         hash,
		fieldForcePasswordChange:  false,
		fieldLastPasswordChangeAt: now.Format(time.RFC3339),
	})
}

func (s *service) sendTempPassword(e *domain.Employee, temp string) error {
	msgID, err := s.mailer.SendEmail(e.Email, "Your TalentNest account",
		fmt.Sprintf("Hello %s,\n\nYour temporary password is: %s\nYou will be asked to change it on first login.", e.FirstName, temp))
	if err != nil {
		slog.Error("credential mail failed", "op", "credential.sendTempPassword", "email", e.Email, "err", err)
		return err
	}
	slog.Info("credentials mailed", "op", "credential.sendTempPassword", "email", e.Email, "message_id", msgID)
	return nil
}

// sendChangeAlert notifies the employee that their password changed.
// Best-effort on both channels; the rotation already succeeded.
func (s *service) sendChangeAlert(ctx context.Context, e *domain.Employee) {
	if _, err := s.mailer.SendEmail(e.Email, "Your password was changed",
		"Your TalentNest password was just changed. If this was not you, contact HR immediately."); err != nil {
		slog.Warn("change alert mail failed", "op", "credential.sendChangeAlert", "email", e.Email, "err", err)
	}
	if s.smsSender != nil && e.Phone != nil {
		if err := s.smsSender.SendSMS(ctx, *e.Phone, "Your TalentNest password was changed."); err != nil {
			slog.Warn("change alert sms failed", "op", "credential.sendChangeAlert", "email", e.Email, "err", err)
		}
	}
}

func (s *service) revokeSessions(ctx context.Context, employeeID string) {
	if s.sessionRepo == nil {
		return
	}
	if err := s.sessionRepo.DisableByUser(ctx, employeeID); err != nil {
		slog.Warn("could not revoke sessions", "op", "credential.revokeSessions", "employee_id", employeeID, "err", err)
	}
}
