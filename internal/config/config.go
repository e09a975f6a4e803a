// Package config loads server settings from defaults, an optional .env file
// and CHECKERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr                string
	AllowedOrigins      []string
	LogLevel            string
	LogPretty           bool
	AIDepth             int
	AITimeout           time.Duration
	BoardsDir           string
	MatchmakingInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      []string{"http://localhost:5173"},
		LogLevel:            "info",
		LogPretty:           true,
		AIDepth:             3,
		AITimeout:           10 * time.Second,
		BoardsDir:           "boards",
		MatchmakingInterval: time.Second,
	}
}

// Load reads envFiles (missing files are skipped) into the process
// environment without overriding it, then applies CHECKERS_* variables on top
// of the defaults.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f, err)
		}
	}

	cfg := Default()
	if v := os.Getenv("CHECKERS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CHECKERS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("CHECKERS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CHECKERS_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CHECKERS_LOG_PRETTY: %v", ErrInvalidConfig, err)
		}
		cfg.LogPretty = b
	}
	if v := os.Getenv("CHECKERS_AI_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CHECKERS_AI_DEPTH: %v", ErrInvalidConfig, err)
		}
		cfg.AIDepth = n
	}
	if v := os.Getenv("CHECKERS_AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CHECKERS_AI_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		cfg.AITimeout = d
	}
	if v := os.Getenv("CHECKERS_BOARDS_DIR"); v != "" {
		cfg.BoardsDir = v
	}
	if v := os.Getenv("CHECKERS_MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CHECKERS_MATCHMAKING_INTERVAL: %v", ErrInvalidConfig, err)
		}
		cfg.MatchmakingInterval = d
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.AIDepth < 1 || c.AIDepth > 8 {
		return fmt.Errorf("%w: ai depth %d out of range 1..8", ErrInvalidConfig, c.AIDepth)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("%w: ai timeout must be positive", ErrInvalidConfig)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("%w: matchmaking interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
