package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	CORSAllowedOrigins []string

	// Redis (booking draft storage)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email provider selection: "sendgrid", "ses" or "stub"
	EmailProvider string

	// SendGrid
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Template identifiers, one per recipient kind. The same pair is used
	// for SES template names when EmailProvider is "ses".
	ConfirmationTemplateID string
	BusinessTemplateID     string

	// AWS (SES sender)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Google Calendar
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleCalendarID   string

	CalendarInitTimeout   time.Duration
	CalendarEventTimeout  time.Duration
	BookingWindowDays     int

	// Business identity used in emails and calendar events
	BusinessName    string
	BusinessEmail   string
	BusinessPhone   string
	BusinessAddress string
	Timezone        string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider: strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "info@margaritastailoring.com"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Margarita's Tailoring"),

		ConfirmationTemplateID: getEnv("EMAIL_CONFIRMATION_TEMPLATE_ID", "template_confirmation"),
		BusinessTemplateID:     getEnv("EMAIL_BUSINESS_TEMPLATE_ID", "template_business_alert"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),

		CalendarInitTimeout:  getEnvAsDuration("CALENDAR_INIT_TIMEOUT", 10*time.Second),
		CalendarEventTimeout: getEnvAsDuration("CALENDAR_EVENT_TIMEOUT", 15*time.Second),
		BookingWindowDays:    getEnvAsInt("BOOKING_WINDOW_DAYS", 90),

		BusinessName:    getEnv("BUSINESS_NAME", "Margarita's Tailoring"),
		BusinessEmail:   getEnv("BUSINESS_EMAIL", "info@margaritastailoring.com"),
		BusinessPhone:   getEnv("BUSINESS_PHONE", "(801) 555-0123"),
		BusinessAddress: getEnv("BUSINESS_ADDRESS", "88 W 50 S Unit E2, Centerville, UT 84014"),
		Timezone:        getEnv("BUSINESS_TIMEZONE", "America/Denver"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
