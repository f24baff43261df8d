// Package config loads server settings from flags, environment variables and
// an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MITHAI"

// Config holds the server settings.
type Config struct {
	Addr        string
	DBPath      string
	JWTSecret   string
	Environment string
	LogPath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins []string
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Load parses args and merges them with the environment. Flags win over
// environment variables, which win over defaults. A .env file in the working
// directory is loaded first if present and never overrides variables that
// are already set. Load returns pflag.ErrHelp when -h is given.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("mithai", pflag.ContinueOnError)
	fs.StringP("addr", "a", ":8080", "listen address")
	fs.StringP("db", "d", "mithai.sqlite3", "SQLite database path")
	fs.String("jwt-secret", "", "token signing key (persisted random key if empty)")
	fs.StringP("environment", "e", "development", "development or production")
	fs.StringP("log", "l", "", "log file path (stdout/stderr only if empty)")
	fs.String("redis-addr", "", "Redis address for the catalog cache (in-memory if empty)")
	fs.String("redis-password", "", "Redis password")
	fs.Int("redis-db", 0, "Redis database number")
	fs.Duration("cache-ttl", 30*time.Second, "catalog cache lifetime")
	fs.StringSlice("kafka-brokers", nil, "Kafka brokers for inventory events (disabled if empty)")
	fs.String("kafka-topic", "mithai.inventory", "Kafka topic for inventory events")
	fs.StringSlice("cors-origins", []string{"http://localhost:5173"}, "allowed browser origins")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	cfg := &Config{
		Addr:          v.GetString("addr"),
		DBPath:        v.GetString("db"),
		JWTSecret:     v.GetString("jwt-secret"),
		Environment:   v.GetString("environment"),
		LogPath:       v.GetString("log"),
		RedisAddr:     v.GetString("redis-addr"),
		RedisPassword: v.GetString("redis-password"),
		RedisDB:       v.GetInt("redis-db"),
		CacheTTL:      v.GetDuration("cache-ttl"),
		KafkaBrokers:  splitList(v.GetStringSlice("kafka-brokers")),
		KafkaTopic:    v.GetString("kafka-topic"),
		CORSOrigins:   splitList(v.GetStringSlice("cors-origins")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache-ttl must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("kafka-topic must be set when kafka-brokers is")
	}
	return nil
}

// splitList flattens comma-separated entries. Environment variables reach
// viper as a single string, flags as a slice.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
