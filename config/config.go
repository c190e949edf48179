package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	GithubToken string
	GinMode     string
}

// Load reads configuration from the environment once at process start. A .env
// file is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    os.Getenv("MONGODB_URI"),
		DBName:      getEnv("DB_NAME", "devhub"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		GithubToken: os.Getenv("GITHUB_TOKEN"),
		GinMode:     getEnv("GIN_MODE", "debug"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
