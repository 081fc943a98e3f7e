// Package config resolves privcheck settings from flags, PRIVCHECK_*
// environment variables, an optional YAML config file and defaults, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/privcheck/internal/session"
	"github.com/abhisek/privcheck/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PRIVCHECK"

// Config is the resolved configuration.
type Config struct {
	DB     string
	Log    LogConfig
	API    APIConfig
	Server ServerConfig

	// File is the config file that was read, or "".
	File string
}

type LogConfig struct {
	Level string
}

// APIConfig points the TUI at a remote assessment service. Without a URL
// and a token or user, assessments are scored locally.
type APIConfig struct {
	URL     string
	Token   string
	User    string
	Timeout time.Duration
}

type ServerConfig struct {
	Addr        string
	DatabaseURL string
	CORSOrigins []string
	CacheSize   int
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":           "db",
	"log-level":    "log.level",
	"api-url":      "api.url",
	"token":        "api.token",
	"user":         "api.user",
	"api-timeout":  "api.timeout",
	"addr":         "server.addr",
	"database-url": "server.database_url",
	"cors-origins": "server.cors_origins",
	"cache-size":   "server.cache_size",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("api.url", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.user", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.database_url", "")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.cache_size", 256)
}

// Load resolves the configuration. path names an explicit config file,
// which must exist; when empty, config.yaml in DefaultConfigDir is read if
// present. Only flags that exist in flags and were set on the command line
// override the other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := DefaultConfigDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		DB:   v.GetString("db"),
		Log:  LogConfig{Level: v.GetString("log.level")},
		File: v.ConfigFileUsed(),
		API: APIConfig{
			URL:     strings.TrimRight(v.GetString("api.url"), "/"),
			Token:   v.GetString("api.token"),
			User:    v.GetString("api.user"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			DatabaseURL: v.GetString("server.database_url"),
			CORSOrigins: splitList(v.GetStringSlice("server.cors_origins")),
			CacheSize:   v.GetInt("server.cache_size"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("server.cache_size must not be negative, got %d", c.Server.CacheSize)
	}
	return nil
}

// DBPath returns the SQLite path, creating its directory. Without a
// configured path it falls back to the XDG data directory.
func (c *Config) DBPath() (string, error) {
	if c.DB != "" {
		return c.DB, store.EnsureDir(c.DB)
	}
	return store.DefaultDBPath()
}

// Identity returns the credentials for the assessment service, or nil when
// none are configured.
func (c *Config) Identity() *session.Identity {
	id := &session.Identity{UserID: c.API.User, Token: c.API.Token}
	if !id.Present() {
		return nil
	}
	return id
}

// Remote reports whether assessments should go to the service.
func (c *Config) Remote() bool {
	return c.API.URL != "" && c.Identity() != nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() slog.Level {
	l, _ := ParseLevel(c.Log.Level)
	return l
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/privcheck, or
// ~/.config/privcheck.
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "privcheck"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "privcheck"), nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
