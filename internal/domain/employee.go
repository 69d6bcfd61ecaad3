package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Employee is the credential record for a regular user of the HR platform.
// Email is the login identity and never changes after creation.
// PasswordHash is produced only by pkg/password and is never empty once the
// record exists. ForcePasswordChange is the sole gate login consults to
// decide whether a session may be issued or rotation must happen first.
type Employee struct {
	EmployeeID           string     `json:"id" dynamodbav:"employee_id"`
	Email                string     `json:"email" dynamodbav:"email"`
	FirstName            string     `json:"first_name" dynamodbav:"first_name"`
	LastName             string     `json:"last_name" dynamodbav:"last_name"`
	NIC                  string     `json:"nic" dynamodbav:"nic"`
	Designation          string     `json:"designation" dynamodbav:"designation"`
	Phone                *string    `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash         string     `json:"-" dynamodbav:"password_hash"`
	ForcePasswordChange  bool       `json:"force_password_change" dynamodbav:"force_password_change"`
	LastPasswordChangeAt *time.Time `json:"last_password_change_at,omitempty" dynamodbav:"last_password_change_at"`
	Enable               bool       `json:"enable" dynamodbav:"enable"`
	CreatedAt            time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt            time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateEmployeeRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	NIC         string  `json:"nic" validate:"required"`
	Designation string  `json:"designation"`
	Phone       *string `json:"phone"`
}
