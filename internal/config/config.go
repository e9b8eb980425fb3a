// Package config provides environment-driven configuration
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Database DatabaseConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port      string
	Mode      string
	UploadDir string
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	JWTSecret string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present.
func Load() *Config {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = generateRandomSecret()
		log.Println("Warning: JWT_SECRET not set, using random secret (not suitable for production)")
	}

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "5001"),
			Mode:      getEnv("SERVER_MODE", "debug"),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Auth: AuthConfig{
			JWTSecret: secret,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitString(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "compliancepro"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "compliancepro"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitString(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func generateRandomSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
