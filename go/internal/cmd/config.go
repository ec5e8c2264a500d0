package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadSettings reads .env, then the optional CONSOLE_CONFIG file, then the
// environment.
func loadSettings() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	return config.Load(getEnv("CONSOLE_CONFIG", ""))
}
