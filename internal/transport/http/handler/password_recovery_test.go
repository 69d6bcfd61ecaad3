package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
)

type mockOTPService struct{ mock.Mock }

func (m *mockOTPService) Issue(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockOTPService) Verify(ctx context.Context, email, code string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, email, code)
	if rec, _ := args.Get(0).(*domain.OTPRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCredentialService struct{ mock.Mock }

func (m *mockCredentialService) CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error) {
	args := m.Called(ctx, req)
	if e, _ := args.Get(0).(*domain.Employee); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCredentialService) ResetCredentials(ctx context.Context, employeeID string) error {
	return m.Called(ctx, employeeID).Error(0)
}

func (m *mockCredentialService) ResetViaOTP(ctx context.Context, email, newPassword string) error {
	return m.Called(ctx, email, newPassword).Error(0)
}

func (m *mockCredentialService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	return m.Called(ctx, email, currentPassword, newPassword).Error(0)
}

func recoveryRouter(os *mockOTPService, cs *mockCredentialService) http.Handler {
	h := NewPasswordRecoveryHandler(os, cs)
	r := chi.NewRouter()
	r.Post("/v1/password-recovery/{action}", h.Handle)
	return r
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecoveryRequest_UnknownAccount_GenericOK(t *testing.T) {
	os := &mockOTPService{}
	os.On("Issue", mock.Anything, "ghost@co.com").Return(domain.ErrNotFound)

	rec := post(t, recoveryRouter(os, &mockCredentialService{}),
		"/v1/password-recovery/request", `{"email":"ghost@co.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "if the account exists")
}

func TestRecoveryRequest_MailerDown_502(t *testing.T) {
	os := &mockOTPService{}
	os.On("Issue", mock.Anything, "a@co.com").Return(domain.ErrMailerUnavailable)

	rec := post(t, recoveryRouter(os, &mockCredentialService{}),
		"/v1/password-recovery/request", `{"email":"a@co.com"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRecoveryRequest_InvalidEmail_400(t *testing.T) {
	os := &mockOTPService{}

	rec := post(t, recoveryRouter(os, &mockCredentialService{}),
		"/v1/password-recovery/request", `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	os.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestRecoveryVerify_HappyPath_ReturnsWindow(t *testing.T) {
	os := &mockOTPService{}
	os.On("Verify", mock.Anything, "a@co.com", "123456").
		Return(&domain.OTPRecord{Email: "a@co.com", Verified: true, ResetWindowExpiresAt: 1700000300}, nil)

	rec := post(t, recoveryRouter(os, &mockCredentialService{}),
		"/v1/password-recovery/verify-code", `{"email":"a@co.com","code":"123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1700000300")
}

func TestRecoveryVerify_WrongCode_401(t *testing.T) {
	os := &mockOTPService{}
	os.On("Verify", mock.Anything, "a@co.com", "654321").Return(nil, domain.ErrMismatch)

	rec := post(t, recoveryRouter(os, &mockCredentialService{}),
		"/v1/password-recovery/verify-code", `{"email":"a@co.com","code":"654321"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecoveryVerify_MalformedCode_400(t *testing.T) {
	os := &mockOTPService{}

	rec := post(t, recoveryRouter(os, &mockCredentialService{}),
		"/v1/password-recovery/verify-code", `{"email":"a@co.com","code":"12ab"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	os.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecoveryReset_HappyPath(t *testing.T) {
	cs := &mockCredentialService{}
	cs.On("ResetViaOTP", mock.Anything, "a@co.com", "NewStrong#2025").Return(nil)

	rec := post(t, recoveryRouter(&mockOTPService{}, cs),
		"/v1/password-recovery/reset", `{"email":"a@co.com","new_password":"NewStrong#2025"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	cs.AssertExpectations(t)
}

func TestRecoveryReset_NotVerified_401(t *testing.T) {
	cs := &mockCredentialService{}
	cs.On("ResetViaOTP", mock.Anything, "a@co.com", "NewStrong#2025").Return(domain.ErrNotVerified)

	rec := post(t, recoveryRouter(&mockOTPService{}, cs),
		"/v1/password-recovery/reset", `{"email":"a@co.com","new_password":"NewStrong#2025"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecoveryReset_AlreadyUsed_409(t *testing.T) {
	cs := &mockCredentialService{}
	cs.On("ResetViaOTP", mock.Anything, "a@co.com", "NewStrong#2025").Return(domain.ErrAlreadyUsed)

	rec := post(t, recoveryRouter(&mockOTPService{}, cs),
		"/v1/password-recovery/reset", `{"email":"a@co.com","new_password":"NewStrong#2025"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecoveryReset_ShortPassword_400(t *testing.T) {
	cs := &mockCredentialService{}

	rec := post(t, recoveryRouter(&mockOTPService{}, cs),
		"/v1/password-recovery/reset", `{"email":"a@co.com","new_password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	cs.AssertNotCalled(t, "ResetViaOTP", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecovery_UnknownAction_400(t *testing.T) {
	rec := post(t, recoveryRouter(&mockOTPService{}, &mockCredentialService{}),
		"/v1/password-recovery/unknown", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
