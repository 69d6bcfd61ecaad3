package domain

import "time"

// OTPRecord is the one-time-code record for the forgot-password flow.
// PK: email. Upsert semantics guarantee at most one live record per identity;
// issuing a new code always replaces any prior one.
//
// The record carries two independent expiry clocks: ExpiresAt bounds the
// window in which the code may be verified, ResetWindowExpiresAt (set once,
// at first verification) bounds the window in which the password reset must
// complete. ExpiresAt doubles as the DynamoDB TTL attribute.
type OTPRecord struct {
	Email                string     `json:"email" dynamodbav:"email"`
	Code                 string     `json:"-" dynamodbav:"code"`
	CreatedAt            time.Time  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt            int64      `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, DynamoDB TTL
	Verified             bool       `json:"verified" dynamodbav:"verified"`
	VerifiedAt           *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`
	ResetWindowExpiresAt int64      `json:"reset_window_expires_at,omitempty" dynamodbav:"reset_window_expires_at"` // 0 until verified
}
