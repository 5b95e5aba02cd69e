// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
}

// Config holds everything the process reads from the environment.
type Config struct {
	// OpenAIKey enables the generative decision policy, AI population
	// generation, and the campaign analyst. Empty falls back to the
	// rule-based strategy everywhere.
	OpenAIKey string
	// SerpAPIKey enables web research during campaign analysis.
	SerpAPIKey string
	NATSURL    string
	APIPort    int
	DataDir    string
}

// Load reads the environment into a Config, applying defaults.
func Load() Config {
	return Config{
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		SerpAPIKey: os.Getenv("SERP_API_KEY"),
		NATSURL:    envOr("NATS_URL", "nats://localhost:4222"),
		APIPort:    envInt("API_PORT", 8080),
		DataDir:    envOr("DATA_DIR", "./data"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
