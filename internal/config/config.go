package config

import (
	"fmt"
	"os"
)

// Persistence policies for the message pipeline. broadcast-first matches the
// historical behavior: messages are fanned out immediately and the store
// append happens in the background.
const (
	PolicyBroadcastFirst = "broadcast-first"
	PolicyPersistFirst   = "persist-first"
)

type Config struct {
	ServerPort    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	JWTSecret     string
	UploadDir     string
	PersistPolicy string
}

func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "chatter"),
		DBPassword:    getEnv("DB_PASSWORD", "chatter_dev_password"),
		DBName:        getEnv("DB_NAME", "chatter"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		UploadDir:     getEnv("UPLOAD_DIR", "data/attachments"),
		PersistPolicy: getEnv("PERSIST_POLICY", PolicyBroadcastFirst),
	}
}

// DSN assembles the postgres connection string for the chat store.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
