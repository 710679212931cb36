package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// BaseURL of the bookstore backend.
	BaseURL string
	// Timeout for a single HTTP call.
	Timeout time.Duration
	// SessionFile is the bbolt file holding token and identity.
	SessionFile string
	// RPS caps outbound request pacing; 0 disables the limiter.
	RPS int
}

// Load reads .env.local (when present) and the environment.
func Load() Config {
	_ = godotenv.Load(".env.local")

	return Config{
		BaseURL:     getEnv("BOOKSHOP_API_URL", "http://localhost:8082"),
		Timeout:     getDuration("BOOKSHOP_TIMEOUT", 15*time.Second),
		SessionFile: getEnv("BOOKSHOP_SESSION_FILE", defaultSessionFile()),
		RPS:         getInt("BOOKSHOP_RPS", 0),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookshop-session.db"
	}
	return filepath.Join(home, ".bookshop", "session.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
