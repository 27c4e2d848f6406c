package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	WorkerCount   int
	LogLevel      string
	Encoding      string
	DefaultTable  string
	BaseLanguage  string
	DatabaseURL   string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:   getEnvInt("WORKER_COUNT", 8),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Encoding:      getEnv("STRINGS_ENCODING", ""),
		DefaultTable:  getEnv("DEFAULT_TABLE", "Localizable"),
		BaseLanguage:  getEnv("BASE_LANGUAGE", "en"),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/dotstrings?sslmode=disable"),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
