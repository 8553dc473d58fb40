package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisDB        int
	JWTSecret      string
	StoreDriver    string
	TeamAPIURL     string
	AllowedOrigins []string
	LogLevel       string
	LogJSON        bool
}

// Load reads configuration from the environment, with .env as a fallback
// for local runs.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment")
	}

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		MongoURI:       envOr("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  envOr("MONGO_DB", "barhop"),
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StoreDriver:    envOr("STORE_DRIVER", DriverMongo),
		TeamAPIURL:     envOr("TEAM_API_URL", "https://api.thesportsdb.example"),
		AllowedOrigins: strings.Split(envOr("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.StoreDriver != DriverMongo && cfg.StoreDriver != DriverMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.RedisDB = db
	}
	return cfg, nil
}

// InitLogger configures the process-wide logrus logger.
func (c *Config) InitLogger() {
	if c.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
