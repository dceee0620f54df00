package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Addr      string
	DBPath    string
	TokenHash string
	MockMode  bool
	Debug     bool

	// Aggregation capacities, zero means the built-in default.
	UsabilityRingCapacity int
	StaEventLogCapacity   int
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("WIFITEL_ADDR", ":8080")
	cfg.DBPath = getEnv("WIFITEL_DB", getDefaultDBPath())
	cfg.TokenHash = getEnv("WIFITEL_TOKEN_HASH", "")
	cfg.MockMode = getEnvBool("WIFITEL_MOCK", false)
	cfg.UsabilityRingCapacity = getEnvInt("WIFITEL_RING_CAPACITY", 0)
	cfg.StaEventLogCapacity = getEnvInt("WIFITEL_STA_LOG_CAPACITY", 0)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite snapshot archive")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Run with a synthetic telemetry producer")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.IntVar(&cfg.UsabilityRingCapacity, "ring-capacity", cfg.UsabilityRingCapacity,
		"Override the usability stats ring capacity (0 = default)")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// getDefaultDBPath returns the default archive path in the user's home
// directory, creating the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "wifitel.db"
	}

	dir := filepath.Join(home, ".wifitel")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .wifitel directory, using current dir: %v", err)
		return "wifitel.db"
	}

	return filepath.Join(dir, "wifitel.db")
}
