package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/id"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/password"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult reports the authentication outcome. Exactly one of the two
// flags is meaningful: MustRotate means the password matched but a forced
// rotation is pending, so no session material is present; Granted means a
// session and bearer token were issued.
type LoginResult struct {
	Granted    bool
	MustRotate bool
	Employee   *domain.Employee
	Session    *domain.Session
	Bearer     string
}

type AdminLoginResult struct {
	Admin   *domain.Admin
	Session *domain.Session
	Bearer  string
}

// Service authenticates identities against the credential stores.
// force_password_change is the sole gate between the two outcomes for
// employees; admins have no rotation machinery at all.
type Service interface {
	Authenticate(ctx context.Context, req LoginRequest) (*LoginResult, error)
	AdminAuthenticate(ctx context.Context, req LoginRequest) (*AdminLoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type employeeStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Disable(ctx context.Context, sessionID string) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type service struct {
	employeeRepo employeeStore
	adminRepo    adminStore
	sessionRepo  sessionStore
	jwtProvider  jwtSigner
	sessionTTL   time.Duration
}

type ServiceDeps struct {
	EmployeeRepo employeeStore
	AdminRepo    adminStore
	SessionRepo  sessionStore
	JWTProvider  jwtSigner
	SessionTTL   time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		employeeRepo: deps.EmployeeRepo,
		adminRepo:    deps.AdminRepo,
		sessionRepo:  deps.SessionRepo,
		jwtProvider:  deps.JWTProvider,
		sessionTTL:   deps.SessionTTL,
	}
}

func (s *service) Authenticate(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	e, err := s.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same answer for unknown identity and wrong password.
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}
	if !e.Enable {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}
	if !password.Verify(req.Password, e.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}

	if e.ForcePasswordChange {
		// Correct (temporary) password, but no session until the rotation
		// completes.
		return &LoginResult{MustRotate: true, Employee: e}, nil
	}

	sess, bearer, err := s.openSession(ctx, e.EmployeeID, domain.RoleEmployee)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Granted: true, Employee: e, Session: sess, Bearer: bearer}, nil
}

func (s *service) AdminAuthenticate(ctx context.Context, req LoginRequest) (*AdminLoginResult, error) {
	a, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}
	if !a.Enable {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}
	if !password.Verify(req.Password, a.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
	}

	sess, bearer, err := s.openSession(ctx, a.AdminID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &AdminLoginResult{Admin: a, Session: sess, Bearer: bearer}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Disable(ctx, sessionID)
}

func (s *service) openSession(ctx context.Context, userID, role string) (*domain.Session, string, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID: id.New(),
		UserID:    userID,
		Role:      role,
		Enable:    true,
		ExpiresAt: now.Add(s.sessionTTL).Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, "", err
	}
	bearer, err := s.jwtProvider.Sign(userID, role, sess.SessionID)
	if err != nil {
		return nil, "", err
	}
	return sess, bearer, nil
}
