package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"APP_JWT_SECRET,required"`

	// Firebase credentials for push notifications. Base64 takes precedence
	// (cloud deployments); the file path is the local-development fallback.
	// Push is disabled when neither yields a working client.
	FirebaseCredentialsBase64 string `env:"FIREBASE_CREDENTIALS_BASE64"`
	FirebaseCredentialsFile   string `env:"FIREBASE_CREDENTIALS_FILE" envDefault:"./firebase-service-account.json"`
}

// Load reads .env (when present) and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
