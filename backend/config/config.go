package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	ServerPort         string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionSecret      string
	FrontendURL        string
	Timezone           string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "habits"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		ServerPort:         getEnv("SERVER_PORT", "3333"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:3333/api/auth/google/callback"),
		SessionSecret:      getEnv("SESSION_SECRET", "secret"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		Timezone:           getEnv("TIMEZONE", "UTC"),
	}, nil
}

// Location resolves the reference timezone used for day truncation and
// weekday computation.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
