package domain

import "time"

// Admin is the administrator credential record. Admins live in their own
// table and their login path never touches the OTP or rotation machinery.
type Admin struct {
	AdminID      string    `json:"id" dynamodbav:"admin_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Name         string    `json:"name" dynamodbav:"name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}
