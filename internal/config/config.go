package config

import (
	"os"
	"strconv"
)

// ServiceConfig holds the service-level configuration loaded from the
// environment. Database configuration lives in the repository package.
type ServiceConfig struct {
	Port   string
	LogEnv string

	// Redis (optional; the service runs without the client cache if absent)
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Twilio (optional; SMS confirmations disabled when unset)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

// LoadConfigFromEnv loads service configuration from environment variables.
func LoadConfigFromEnv() *ServiceConfig {
	return &ServiceConfig{
		Port:   GetEnvOrDefault("PORT", "8080"),
		LogEnv: GetEnvOrDefault("LOG_ENV", "development"),

		RedisEnabled:  GetEnvBoolOrDefault("REDIS_ENABLED", true),
		RedisHost:     GetEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     GetEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvIntOrDefault("REDIS_DB", 0),

		TwilioAccountSID: GetEnvOrDefault("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  GetEnvOrDefault("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: GetEnvOrDefault("TWILIO_FROM_NUMBER", ""),
	}
}

// GetEnvOrDefault gets an environment variable or returns the default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntOrDefault gets an environment variable as int or returns the default.
func GetEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvBoolOrDefault gets an environment variable as bool or returns the default.
func GetEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
