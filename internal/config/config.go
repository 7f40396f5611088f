// Package config assembles the server configuration from defaults, an
// optional JSON file, a .env file, the process environment and finally
// command-line flags, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vaughan-dsouza/QuizGo/internal/password"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - HTTPAddr: listen address, e.g. ":4000".
//   - AuthSecret: HMAC secret for signing tokens. Required.
//   - TokenTTL: lifetime of issued tokens.
//   - StoreBackend / DataDir / DatabaseURL: where users and results live.
//   - DBMaxOpen / DBMaxIdle / DBMaxLifetime: Postgres pool tuning.
//   - PasswordScheme / PasswordSalt: password digest scheme ("bcrypt" or "static").
//   - AdminEmail / AdminPassword: the administrator account seeded at boot.
type Config struct {
	HTTPAddr        string
	AuthSecret      string
	TokenTTL        time.Duration
	StoreBackend    string
	DataDir         string
	DatabaseURL     string
	DBMaxOpen       int
	DBMaxIdle       int
	DBMaxLifetime   time.Duration
	PasswordScheme  string
	PasswordSalt    string
	AdminEmail      string
	AdminPassword   string
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	PingMessage     string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults. There is no
// default secret: a server without AUTH_SECRET refuses to start.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":4000"
	c.TokenTTL = token.DefaultTTL
	c.StoreBackend = store.BackendMemory
	c.DataDir = "data"
	c.DBMaxOpen = 10
	c.DBMaxIdle = 5
	c.DBMaxLifetime = 30 * time.Minute
	c.PasswordScheme = password.SchemeBcrypt
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.CORSOrigins = []string{"*"}
	c.PingMessage = "ping"
	c.ShutdownTimeout = 5 * time.Second
}

// Load builds a Config from the given command-line arguments (without the
// program name) and the process environment.
func Load(args []string) (*Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	fl, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if fl.configFile != "" {
		if err := parseJSON(cfg, fl.configFile); err != nil {
			return nil, err
		}
	}

	dotenv, err := readDotEnv(fl.envFile)
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, withDotEnv(lookup, dotenv)); err != nil {
		return nil, err
	}

	fl.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.AuthSecret == "" {
		errs = append(errs, errors.New("AUTH_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}

	switch c.StoreBackend {
	case store.BackendMemory:
	case store.BackendFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR is required for the file store"))
		}
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.StoreBackend))
	}

	switch c.PasswordScheme {
	case password.SchemeBcrypt:
	case password.SchemeStatic:
		if c.PasswordSalt == "" {
			errs = append(errs, errors.New("PASSWORD_SALT is required for the static password scheme"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown password scheme %q", c.PasswordScheme))
	}

	return errors.Join(errs...)
}
