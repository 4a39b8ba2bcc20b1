package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the farmstead server configuration, read from the environment.
type Config struct {
	Addr          string
	StoreDriver   string // sqlite or postgres
	SQLitePath    string
	DatabaseURL   string
	MilkTickEvery time.Duration
	LogLevel      string
}

// CLIConfig is what the player subcommands need to reach a running server.
type CLIConfig struct {
	APIBaseURL string
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("FARMSTEAD_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func LoadFromEnv() (Config, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("FARMSTEAD_ADDR", ":8080")
	}

	cfg := Config{
		Addr:          addr,
		StoreDriver:   envDriverDefault(),
		SQLitePath:    envDefault("FARMSTEAD_SQLITE_PATH", "farmstead.db"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MilkTickEvery: envDurationDefault("FARMSTEAD_MILK_TICK_EVERY", 30*time.Second),
		LogLevel:      strings.ToLower(envDefault("FARMSTEAD_LOG_LEVEL", "info")),
	}
	if cfg.StoreDriver == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required with the postgres store")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envDriverDefault() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("FARMSTEAD_STORE")))
	switch v {
	case "sqlite", "postgres":
		return v
	default:
		return "sqlite"
	}
}
