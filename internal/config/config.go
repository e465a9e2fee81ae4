package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fallingfour/internal/game"
)

type Config struct {
	Rows          int
	Cols          int
	HumanStarts   bool
	Seed          int64
	LogLevel      zerolog.Level
	Addr          string
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroup    string
	StatsInterval time.Duration
}

// Load reads .env (if present), the environment and then args, which
// override the environment. name is used for the flag set.
func Load(name string, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := &Config{
		Rows:          GetEnvAsInt("ROWS", game.DefaultRows),
		Cols:          GetEnvAsInt("COLS", game.DefaultCols),
		HumanStarts:   GetEnvAsBool("HUMAN_STARTS", true),
		Seed:          int64(GetEnvAsInt("SEED", 0)),
		Addr:          listenAddr(),
		KafkaBrokers:  SplitList(GetEnv("KAFKA_BROKERS", "")),
		KafkaTopic:    GetEnv("KAFKA_TOPIC", "game-events"),
		KafkaGroup:    GetEnv("KAFKA_GROUP", "analytics-consumer"),
		StatsInterval: time.Duration(GetEnvAsInt("STATS_INTERVAL", 30)) * time.Second,
	}
	level := GetEnv("LOG_LEVEL", "info")

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.Rows, "rows", cfg.Rows, "number of board rows")
	fs.IntVar(&cfg.Cols, "cols", cfg.Cols, "number of board columns")
	fs.BoolVar(&cfg.HumanStarts, "human-starts", cfg.HumanStarts, "let the human move first")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the computer player, 0 uses the clock")
	fs.StringVar(&level, "log-level", level, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for the web front end")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	cfg.LogLevel = lvl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return errors.Errorf("invalid board size: %dx%d", c.Rows, c.Cols)
	}
	if c.StatsInterval <= 0 {
		return errors.Errorf("invalid stats interval: %s", c.StatsInterval)
	}
	return nil
}

// Winnable reports whether four in a row fits on the board at all.
func (c *Config) Winnable() bool {
	return c.Rows >= game.WinLength || c.Cols >= game.WinLength
}

func listenAddr() string {
	// PORT takes precedence, as set by most hosting platforms.
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return GetEnv("ADDR", ":8080")
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}
	return value
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
