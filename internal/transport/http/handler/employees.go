package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/credential"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/pkg/validate"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/transport/http/middleware"
)

// EmployeeStore is the read surface the handler needs for profile lookups.
type EmployeeStore interface {
	Get(ctx context.Context, employeeID string) (*domain.Employee, error)
}

// EmployeeHandler handles account provisioning and admin-issued resets.
type EmployeeHandler struct {
	credentialService credential.Service
	employeeRepo      EmployeeStore
}

func NewEmployeeHandler(credentialService credential.Service, employeeRepo EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{credentialService: credentialService, employeeRepo: employeeRepo}
}

// Create provisions an employee with a temporary password. A mail delivery
// failure after the account was stored returns 502 together with the created
// record so the admin knows to re-issue credentials rather than re-create.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.credentialService.CreateEmployee(r.Context(), req)
	if err != nil {
		if e != nil && errors.Is(err, domain.ErrMailerUnavailable) {
			slog.Warn("employee created but credential mail failed", "op", "create-employee", "employee_id", e.EmployeeID)
			writeJSON(w, http.StatusBadGateway, struct {
				Employee *domain.Employee `json:"employee"`
				Error    string           `json:"error"`
			}{Employee: e, Error: "account created but credential email could not be delivered"})
			return
		}
		httpError(w, err)
		return
	}
	slog.Info("employee created", "op", "create-employee", "employee_id", e.EmployeeID)
	writeJSON(w, http.StatusCreated, struct {
		Employee *domain.Employee `json:"employee"`
	}{Employee: e})
}

// ResetCredentials re-issues a temporary password for an existing employee.
func (h *EmployeeHandler) ResetCredentials(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "missing employee id")
		return
	}
	if err := h.credentialService.ResetCredentials(r.Context(), employeeID); err != nil {
		httpError(w, err)
		return
	}
	slog.Info("credentials reset", "op", "reset-credentials", "employee_id", employeeID)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "temporary credentials issued"})
}

// Get returns an employee profile. Admins may read anyone; employees only
// themselves.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}
	if claims.Role != domain.RoleAdmin && claims.UserID != employeeID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	e, err := h.employeeRepo.Get(r.Context(), employeeID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Employee *domain.Employee `json:"employee"`
	}{Employee: e})
}
