// Package config loads server settings from the environment, with a
// .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment
type Config struct {
	Port      string
	JWTSecret string

	// Firebase credentials: base64 wins when both are set
	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string

	// Topic for campus-wide rider alert broadcasts
	AlertTopic string

	// Assumed average shuttle speed for ETA estimates
	SpeedKmh float64

	// Proximity alert thresholds (minutes)
	ApproachingMinutes int
	ArrivingMinutes    int

	// Driver location push cadence
	LocationInterval        time.Duration
	LocationMinDisplacement float64
}

// Load reads the .env file (if present) and the environment
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:                      getenvDefault("PORT", "8080"),
		JWTSecret:                 os.Getenv("APP_JWT_SECRET"),
		FirebaseCredentialsBase64: os.Getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseCredentialsFile:   getenvDefault("FIREBASE_CREDENTIALS_FILE", "./firebase-service-account.json"),
		AlertTopic:                getenvDefault("ALERT_TOPIC", "campus-alerts"),
		SpeedKmh:                  getenvFloat("SHUTTLE_SPEED_KMH", 30),
		ApproachingMinutes:        getenvInt("APPROACHING_MINUTES", 5),
		ArrivingMinutes:           getenvInt("ARRIVING_MINUTES", 1),
		LocationInterval:          time.Duration(getenvInt("LOCATION_INTERVAL_SECONDS", 30)) * time.Second,
		LocationMinDisplacement:   getenvFloat("LOCATION_MIN_DISPLACEMENT_METERS", 10),
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
