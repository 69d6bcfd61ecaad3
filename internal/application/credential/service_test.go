package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockEmployeeStore struct{ mock.Mock }

func (m *mockEmployeeStore) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if e, _ := args.Get(0).(*domain.Employee); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	args := m.Called(ctx, email)
	if e, _ := args.Get(0).(*domain.Employee); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEmployeeStore) Put(ctx context.Context, e *domain.Employee) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEmployeeStore) Update(ctx context.Context, employeeID string, updates map[string]interface{}) error {
	return m.Called(ctx, employeeID, updates).Error(0)
}

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, email)
	if v, _ := args.Get(0).(*domain.OTPRecord); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) DeleteVerified(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) DisableByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) (string, error) {
	args := m.Called(to, subject, body)
	return args.String(0), args.Error(1)
}

// --- builder ---

func newService(es *mockEmployeeStore, os *mockOTPStore, ss *mockSessionStore, ml *mockMailer) Service {
	return NewService(ServiceDeps{
		EmployeeRepo:       es,
		OTPRepo:            os,
		SessionRepo:        ss,
		Mailer:             ml,
		TempPasswordLength: 12,
	})
}

func verifiedOTP(email string) *domain.OTPRecord {
	verifiedAt := time.Now().Add(-30 * time.Second)
	return &domain.OTPRecord{
		Email:                email,
		Code:                 "482913",
		ExpiresAt:            time.Now().Add(4 * time.Minute).Unix(),
		Verified:             true,
		VerifiedAt:           &verifiedAt,
		ResetWindowExpiresAt: verifiedAt.Add(5 * time.Minute).Unix(),
	}
}

// --- CreateEmployee ---

func TestCreateEmployee_EmailTaken(t *testing.T) {
	es := &mockEmployeeStore{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{EmployeeID: "e1"}, nil)

	svc := newService(es, nil, nil, nil)
	_, err := svc.CreateEmployee(context.Background(), domain.CreateEmployeeRequest{Email: "a@co.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreateEmployee_LookupStorageFault_Propagated(t *testing.T) {
	es := &mockEmployeeStore{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(nil, domain.ErrStorageUnavailable)

	svc := newService(es, nil, nil, nil)
	_, err := svc.CreateEmployee(context.Background(), domain.CreateEmployeeRequest{Email: "a@co.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	// An outage during the availability check must never read as "available".
	es.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreateEmployee_HappyPath(t *testing.T) {
	es := &mockEmployeeStore{}
	ml := &mockMailer{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(nil, domain.ErrNotFound)

	var stored *domain.Employee
	es.On("Put", mock.Anything, mock.AnythingOfType("*domain.Employee")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Employee) }).
		Return(nil)

	var mailBody string
	ml.On("SendEmail", "a@co.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { mailBody = args.String(2) }).
		Return("msg-1", nil)

	svc := newService(es, nil, nil, ml)
	e, err := svc.CreateEmployee(context.Background(), domain.CreateEmployeeRequest{
		Email: "a@co.com", FirstName: "Amara", LastName: "Silva", NIC: "991234567V",
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.ForcePasswordChange)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEmpty(t, e.EmployeeID)
	// The mailed temporary password must verify against the stored hash.
	require.NotEmpty(t, mailBody)
}

func TestCreateEmployee_MailerFailure_SurfacedWithAccountCreated(t *testing.T) {
	es := &mockEmployeeStore{}
	ml := &mockMailer{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(nil, domain.ErrNotFound)
	es.On("Put", mock.Anything, mock.AnythingOfType("*domain.Employee")).Return(nil)
	ml.On("SendEmail", "a@co.com", mock.Anything, mock.Anything).
		Return("", domain.ErrMailerUnavailable)

	svc := newService(es, nil, nil, ml)
	e, err := svc.CreateEmployee(context.Background(), domain.CreateEmployeeRequest{
		Email: "a@co.com", FirstName: "Amara", LastName: "Silva", NIC: "991234567V",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMailerUnavailable))
	assert.NotNil(t, e) // the account exists even though delivery failed
}

// --- ResetViaOTP ---

func TestResetViaOTP_TooShort_NoStoreAccess(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "short")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestResetViaOTP_NoOTP(t *testing.T) {
	os := &mockOTPStore{}
	os.On("Get", mock.Anything, "a@co.com").Return(nil, domain.ErrNotFound)

	svc := newService(nil, os, nil, nil)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResetViaOTP_NotVerified(t *testing.T) {
	os := &mockOTPStore{}
	os.On("Get", mock.Anything, "a@co.com").Return(&domain.OTPRecord{
		Email:     "a@co.com",
		Code:      "482913",
		ExpiresAt: time.Now().Add(4 * time.Minute).Unix(),
	}, nil)

	svc := newService(nil, os, nil, nil)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotVerified))
}

func TestResetViaOTP_WindowElapsed(t *testing.T) {
	verifiedAt := time.Now().Add(-10 * time.Minute)
	os := &mockOTPStore{}
	os.On("Get", mock.Anything, "a@co.com").Return(&domain.OTPRecord{
		Email:                "a@co.com",
		Code:                 "482913",
		ExpiresAt:            verifiedAt.Add(5 * time.Minute).Unix(),
		Verified:             true,
		VerifiedAt:           &verifiedAt,
		ResetWindowExpiresAt: verifiedAt.Add(5 * time.Minute).Unix(),
	}, nil)

	svc := newService(nil, os, nil, nil)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExpired))
}

func TestResetViaOTP_HappyPath_CredentialWriteBeforeDelete(t *testing.T) {
	es := &mockEmployeeStore{}
	os := &mockOTPStore{}
	ss := &mockSessionStore{}
	ml := &mockMailer{}

	os.On("Get", mock.Anything, "a@co.com").Return(verifiedOTP("a@co.com"), nil)
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", Enable: true,
	}, nil)

	var order []string
	es.On("Update", mock.Anything, "e1", mock.MatchedBy(func(m map[string]interface{}) bool {
		_, hasHash := m[fieldPasswordHash]
		return hasHash && m[fieldForcePasswordChange] == false
	})).Run(func(mock.Arguments) { order = append(order, "update") }).Return(nil)
	os.On("DeleteVerified", mock.Anything, "a@co.com").
		Run(func(mock.Arguments) { order = append(order, "delete") }).Return(nil)
	ss.On("DisableByUser", mock.Anything, "e1").Return(nil)
	ml.On("SendEmail", "a@co.com", mock.Anything, mock.Anything).Return("msg-2", nil)

	svc := newService(es, os, ss, ml)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")

	require.NoError(t, err)
	require.Equal(t, []string{"update", "delete"}, order)
}

func TestResetViaOTP_CredentialWriteFails_OTPRetained(t *testing.T) {
	es := &mockEmployeeStore{}
	os := &mockOTPStore{}

	os.On("Get", mock.Anything, "a@co.com").Return(verifiedOTP("a@co.com"), nil)
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", Enable: true,
	}, nil)
	es.On("Update", mock.Anything, "e1", mock.Anything).Return(domain.ErrStorageUnavailable)

	svc := newService(es, os, nil, nil)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	// The OTP must remain so the whole operation is retryable.
	os.AssertNotCalled(t, "DeleteVerified", mock.Anything, mock.Anything)
}

func TestResetViaOTP_RacingLoser_AlreadyUsed(t *testing.T) {
	es := &mockEmployeeStore{}
	os := &mockOTPStore{}
	ss := &mockSessionStore{}
	ml := &mockMailer{}

	os.On("Get", mock.Anything, "a@co.com").Return(verifiedOTP("a@co.com"), nil)
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", Enable: true,
	}, nil)
	es.On("Update", mock.Anything, "e1", mock.Anything).Return(nil)
	os.On("DeleteVerified", mock.Anything, "a@co.com").Return(domain.ErrAlreadyUsed)

	svc := newService(es, os, ss, ml)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyUsed))
}

func TestResetViaOTP_DeleteStorageFault_StillSucceeds(t *testing.T) {
	es := &mockEmployeeStore{}
	os := &mockOTPStore{}
	ss := &mockSessionStore{}
	ml := &mockMailer{}

	os.On("Get", mock.Anything, "a@co.com").Return(verifiedOTP("a@co.com"), nil)
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", Enable: true,
	}, nil)
	es.On("Update", mock.Anything, "e1", mock.Anything).Return(nil)
	os.On("DeleteVerified", mock.Anything, "a@co.com").Return(domain.ErrStorageUnavailable)
	ss.On("DisableByUser", mock.Anything, "e1").Return(nil)
	ml.On("SendEmail", "a@co.com", mock.Anything, mock.Anything).Return("msg-3", nil)

	svc := newService(es, os, ss, ml)
	err := svc.ResetViaOTP(context.Background(), "a@co.com", "NewPass1!")

	// Credential write confirmed; a leftover OTP record is cleanup debt, not
	// a failed reset.
	require.NoError(t, err)
}

// --- ChangePassword ---

func TestChangePassword_WrongCurrent(t *testing.T) {
	hash, err := password.Hash("TEMP123!")
	require.NoError(t, err)

	es := &mockEmployeeStore{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", PasswordHash: hash, Enable: true,
	}, nil)

	svc := newService(es, nil, nil, nil)
	err = svc.ChangePassword(context.Background(), "a@co.com", "WRONG", "Strong#2025")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	es.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_UnknownIdentity_GenericError(t *testing.T) {
	es := &mockEmployeeStore{}
	es.On("GetByEmail", mock.Anything, "ghost@co.com").Return(nil, domain.ErrNotFound)

	svc := newService(es, nil, nil, nil)
	err := svc.ChangePassword(context.Background(), "ghost@co.com", "TEMP123!", "Strong#2025")

	require.Error(t, err)
	// Never reveal whether the identity or the password was wrong.
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestChangePassword_SamePassword_Rejected(t *testing.T) {
	hash, err := password.Hash("TEMP123!")
	require.NoError(t, err)

	es := &mockEmployeeStore{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", PasswordHash: hash, Enable: true,
	}, nil)

	svc := newService(es, nil, nil, nil)
	err = svc.ChangePassword(context.Background(), "a@co.com", "TEMP123!", "TEMP123!")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	es.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_TooShort_FailsFast(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	err := svc.ChangePassword(context.Background(), "a@co.com", "TEMP123!", "short")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestChangePassword_HappyPath_ClearsForceFlag(t *testing.T) {
	hash, err := password.Hash("TEMP123!")
	require.NoError(t, err)

	es := &mockEmployeeStore{}
	ss := &mockSessionStore{}
	ml := &mockMailer{}
	es.On("GetByEmail", mock.Anything, "a@co.com").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", PasswordHash: hash,
		ForcePasswordChange: true, Enable: true,
	}, nil)

	var updates map[string]interface{}
	es.On("Update", mock.Anything, "e1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	ss.On("DisableByUser", mock.Anything, "e1").Return(nil)
	ml.On("SendEmail", "a@co.com", mock.Anything, mock.Anything).Return("msg-4", nil)

	svc := newService(es, nil, ss, ml)
	err = svc.ChangePassword(context.Background(), "a@co.com", "TEMP123!", "Strong#2025")

	require.NoError(t, err)
	require.NotNil(t, updates)
	assert.Equal(t, false, updates[fieldForcePasswordChange])
	assert.Contains(t, updates, fieldLastPasswordChangeAt)
	newHash, ok := updates[fieldPasswordHash].(string)
	require.True(t, ok)
	assert.True(t, password.Verify("Strong#2025", newHash))
}

// --- ResetCredentials ---

func TestResetCredentials_SetsForceFlagAndMailsTempPassword(t *testing.T) {
	es := &mockEmployeeStore{}
	ss := &mockSessionStore{}
	ml := &mockMailer{}
	es.On("Get", mock.Anything, "e1").Return(&domain.Employee{
		EmployeeID: "e1", Email: "a@co.com", FirstName: "Amara", Enable: true,
	}, nil)

	var updates map[string]interface{}
	es.On("Update", mock.Anything, "e1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	ss.On("DisableByUser", mock.Anything, "e1").Return(nil)
	ml.On("SendEmail", "a@co.com", mock.Anything, mock.Anything).Return("msg-5", nil)

	svc := newService(es, nil, ss, ml)
	err := svc.ResetCredentials(context.Background(), "e1")

	require.NoError(t, err)
	require.NotNil(t, updates)
	assert.Equal(t, true, updates[fieldForcePasswordChange])
	assert.Contains(t, updates, fieldPasswordHash)
	ml.AssertExpectations(t)
}
