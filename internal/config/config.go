package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// OTP and session durations are injected into services at construction time;
// nothing reads them from process state at call time.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	SessionTTL        time.Duration

	OTPTTL             time.Duration
	ResetWindowTTL     time.Duration
	TempPasswordLength int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Employees string
	Admins    string
	OTPs      string
	Sessions  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Employees: getEnv("DYNAMO_TABLE_EMPLOYEES", "employees"),
			Admins:    getEnv("DYNAMO_TABLE_ADMINS", "admins"),
			OTPs:      getEnv("DYNAMO_TABLE_OTPS", "otps"),
			Sessions:  getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
		},

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_HOURS", 8)) * time.Hour,

		OTPTTL:             time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		ResetWindowTTL:     time.Duration(getEnvInt("RESET_WINDOW_MINUTES", 5)) * time.Minute,
		TempPasswordLength: getEnvInt("TEMP_PASSWORD_LENGTH", 12),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@talentnest.lk"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
