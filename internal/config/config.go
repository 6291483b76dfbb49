package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth (single user)
	AdminUsername string
	AdminPassword string // plaintext in env, hashed on startup
	JWTSecret     string

	// Alert email
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	AlertSender    string
	AlertRecipient string

	// Background evaluation sweep
	CheckIntervalSeconds int
	// WebSocket push interval for the live alert stream
	LiveIntervalSeconds int
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	checkInterval, _ := strconv.Atoi(getEnv("ALERT_CHECK_INTERVAL", "60"))
	liveInterval, _ := strconv.Atoi(getEnv("ALERT_LIVE_INTERVAL", "5"))
	return &Config{
		Port:                 getEnv("PORT", "8098"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", "vigil_db"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		AdminUsername:        getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             smtpPort,
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		AlertSender:          getEnv("ALERT_SENDER_EMAIL", "default_sender@example.com"),
		AlertRecipient:       getEnv("ALERT_RECIPIENT_EMAIL", ""),
		CheckIntervalSeconds: checkInterval,
		LiveIntervalSeconds:  liveInterval,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
