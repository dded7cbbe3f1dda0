package config

import (
	"fmt"
	"os"
)

// Config carries everything the service reads from the environment.
// The admin password gates buzzword update/delete and is injected into
// the repository layer rather than read ambiently.
type Config struct {
	Addr          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	AdminPassword string
}

// Load reads the configuration from the environment. ADMIN_PASSWORD is
// required; everything else falls back to local-development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getenv("ADDR", ":8080"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "catalog"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getenv("DB_NAME", "catalog"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is not set")
	}
	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBPassword)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
