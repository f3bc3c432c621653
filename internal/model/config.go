package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `mapstructure:"addr" yaml:"addr"`

	// SecureCookies marks session and CSRF cookies as Secure (HTTPS only).
	SecureCookies bool `mapstructure:"secure_cookies" yaml:"secure_cookies"`

	// CSRF toggles CSRF token checks on state-changing form posts.
	CSRF bool `mapstructure:"csrf" yaml:"csrf"`
}

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	// URL is either a SQLite file path (optionally sqlite:/// prefixed)
	// or a postgres:// connection string.
	URL string `mapstructure:"url" yaml:"url"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret     string `mapstructure:"secret" yaml:"secret"`
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todolist/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todolist", "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr: ":8080",
			CSRF: true,
		},
		Database: DatabaseConfig{
			URL: "to-do.db",
		},
		Session: SessionConfig{
			CookieName: "session",
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envBindings lists config keys that also read unprefixed environment
// variables. Each entry is a key followed by the variables it reads.
var envBindings = [][]string{
	{"database.url", "TODOLIST_DATABASE_URL", "DATABASE_URL"},
	{"session.secret", "TODOLIST_SESSION_SECRET", "SECRET_KEY"},
}

func bindEnv(v *viper.Viper, bindings [][]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("binding env for %v: %w", b, err)
		}
	}
	return nil
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies environment overrides. TODOLIST_<SECTION>_<KEY> variables
// override any key; DATABASE_URL and SECRET_KEY are honoured as well.
// If the file does not exist, defaults plus environment are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := DefaultAppConfig()
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.secure_cookies", def.Server.SecureCookies)
	v.SetDefault("server.csrf", def.Server.CSRF)
	v.SetDefault("database.url", def.Database.URL)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", def.Session.CookieName)
	v.SetDefault("auth.bcrypt_cost", def.Auth.BcryptCost)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix("todolist")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v, envBindings); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = def.Session.CookieName
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = def.Database.URL
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. The session secret is never
// written; it belongs in the environment or the keyring.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("database", cfg.Database)
	v.Set("session.cookie_name", cfg.Session.CookieName)
	v.Set("auth", cfg.Auth)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
