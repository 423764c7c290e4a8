// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the process settings.
type Config struct {
	Addr           string
	RedisURL       string // empty disables the action journal
	DatabaseURL    string // empty disables the results archive
	BotDelay       time.Duration
	CountdownWild  bool
	AllowedOrigins []string // empty allows same-origin only
	LogLevel       logrus.Level
	LogFormat      string // text or json
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:      ":8080",
		BotDelay:  1200 * time.Millisecond,
		LogLevel:  logrus.InfoLevel,
		LogFormat: "text",
	}
}

// Load reads the given env files (".env" when none are given) without
// overriding variables already set, then parses the environment. Missing env
// files are skipped. Invalid values are errors naming the variable.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv parses the current environment on top of Default.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("BOT_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("BOT_DELAY_MS: invalid value %q", v)
		}
		cfg.BotDelay = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("COUNTDOWN_WILD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("COUNTDOWN_WILD: invalid value %q", v)
		}
		cfg.CountdownWild = b
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		v = strings.ToLower(v)
		if v != "text" && v != "json" {
			return Config{}, fmt.Errorf("LOG_FORMAT: invalid value %q (want text or json)", v)
		}
		cfg.LogFormat = v
	}
	return cfg, nil
}

// ConfigureLogger applies the level and format to l.
func (c Config) ConfigureLogger(l *logrus.Logger) {
	l.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
