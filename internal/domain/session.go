package domain

import "time"

type Session struct {
	SessionID string    `json:"id" dynamodbav:"session_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Role      string    `json:"role" dynamodbav:"role"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, DynamoDB TTL
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
