package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/playpool/kolkhoz/internal/game"
)

type Config struct {
	// Environment
	Environment string

	// Redis (optional, fan-out of table updates between instances)
	RedisURL string

	// Server
	Port         string
	FrontendURL  string
	WSSendBuffer int
	TableLimit   int

	// Idle tables are closed after TableIdleMinutes, checked every
	// ReaperIntervalSeconds. Zero disables the reaper.
	TableIdleMinutes      int
	ReaperIntervalSeconds int

	// Scoring
	PenaltyScope          game.PenaltyScope
	DefaultPenaltyNominal int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	scope, err := game.ParsePenaltyScope(getEnv("PENALTY_SCOPE", string(game.ScopeSeries)))
	if err != nil {
		log.Printf("[CONFIG] %v, falling back to %s", err, game.ScopeSeries)
		scope = game.ScopeSeries
	}

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:         getEnv("APP_PORT", "8080"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		WSSendBuffer: getEnvInt("WS_SEND_BUFFER", 256),
		TableLimit:   getEnvInt("TABLE_LIMIT", 100),

		TableIdleMinutes:      getEnvInt("TABLE_IDLE_MINUTES", 720),
		ReaperIntervalSeconds: getEnvInt("REAPER_INTERVAL_SECONDS", 60),

		// Scoring
		PenaltyScope:          scope,
		DefaultPenaltyNominal: game.NormalizePenaltyNominal(getEnvInt("DEFAULT_PENALTY_NOMINAL", game.DefaultPenaltyNominal)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
