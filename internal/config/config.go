package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	LeaderboardPostgres = "postgres"
	LeaderboardFile     = "file"
)

// Config describes all runtime settings for the server.
// Load it once in main, validate it and pass it down explicitly.
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format string // text|json
		Level  string // debug|info|warn|error
	}

	HTTP struct {
		Addr              string
		ReadHeaderTimeout time.Duration
		ReadTimeout       time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
		ShutdownTimeout   time.Duration
	}

	Postgres struct {
		URL           string
		RunMigrations bool
	}

	Redis struct {
		Addr       string
		DB         int
		SessionTTL time.Duration
	}

	Auth struct {
		Secret   string
		TokenTTL time.Duration
	}

	Game struct {
		Seed uint64 // 0 means a fresh random source
	}

	Leaderboard struct {
		Backend string // postgres|file
		File    string
		Limit   int
	}
}

// LoadFromEnv reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var c Config

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")
	c.Log.Level = envString("LOG_LEVEL", "info")

	port := envString("PORT", "8080")
	c.HTTP.Addr = envString("HTTP_ADDR", ":"+port)
	c.HTTP.ReadHeaderTimeout = envDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second)
	c.HTTP.ReadTimeout = envDuration("HTTP_READ_TIMEOUT", 0)
	c.HTTP.WriteTimeout = envDuration("HTTP_WRITE_TIMEOUT", 0)
	c.HTTP.IdleTimeout = envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)
	c.HTTP.ShutdownTimeout = envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	c.Postgres.URL = envString("DATABASE_URL", "postgres://mm:mm@localhost:5432/mastermind?sslmode=disable")
	c.Postgres.RunMigrations = envBool("RUN_MIGRATIONS", false)

	c.Redis.Addr = envString("REDIS_ADDR", "localhost:6379")
	c.Redis.DB = envInt("REDIS_DB", 0)
	c.Redis.SessionTTL = envDuration("SESSION_TTL", 24*time.Hour)

	c.Auth.Secret = envString("JWT_SECRET", "dev-secret-change-me")
	c.Auth.TokenTTL = envDuration("JWT_TTL", 24*time.Hour)

	c.Game.Seed = envUint64("GAME_SEED", 0)

	c.Leaderboard.Backend = envString("LEADERBOARD_BACKEND", LeaderboardPostgres)
	c.Leaderboard.File = envString("LEADERBOARD_FILE", "./data/leaderboard.txt")
	c.Leaderboard.Limit = envInt("LEADERBOARD_LIMIT", 10)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("HTTP addr is empty")
	}
	if c.Postgres.URL == "" {
		return errors.New("DATABASE_URL is empty")
	}
	if c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is empty")
	}
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Env != "dev" && c.Auth.Secret == "dev-secret-change-me" {
		return fmt.Errorf("refuse to run with default JWT_SECRET in %s", c.Env)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported LOG_LEVEL=%q (want debug|info|warn|error)", c.Log.Level)
	}
	switch c.Leaderboard.Backend {
	case LeaderboardPostgres:
	case LeaderboardFile:
		if c.Leaderboard.File == "" {
			return errors.New("LEADERBOARD_FILE is empty")
		}
	default:
		return fmt.Errorf("unsupported LEADERBOARD_BACKEND=%q (want postgres|file)", c.Leaderboard.Backend)
	}
	if c.Leaderboard.Limit <= 0 {
		return fmt.Errorf("LEADERBOARD_LIMIT must be positive, got %d", c.Leaderboard.Limit)
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envUint64(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return n
		}
	}
	return def
}
