package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors Config for JSON files. Durations are strings accepted
// by parseDuration; empty or zero fields leave the current value alone.
type jsonConfig struct {
	HTTPAddr        string   `json:"http_addr"`
	AuthSecret      string   `json:"auth_secret"`
	TokenTTL        string   `json:"token_ttl"`
	StoreBackend    string   `json:"store_backend"`
	DataDir         string   `json:"data_dir"`
	DatabaseURL     string   `json:"database_url"`
	DBMaxOpen       int      `json:"db_max_open"`
	DBMaxIdle       int      `json:"db_max_idle"`
	DBMaxLifetime   string   `json:"db_max_lifetime"`
	PasswordScheme  string   `json:"password_scheme"`
	PasswordSalt    string   `json:"password_salt"`
	AdminEmail      string   `json:"admin_email"`
	AdminPassword   string   `json:"admin_password"`
	LogLevel        string   `json:"log_level"`
	LogFormat       string   `json:"log_format"`
	CORSOrigins     []string `json:"cors_origins"`
	PingMessage     string   `json:"ping_message"`
	ShutdownTimeout string   `json:"shutdown_timeout"`
}

func parseJSON(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var c jsonConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.AuthSecret, c.AuthSecret)
	setString(&cfg.StoreBackend, c.StoreBackend)
	setString(&cfg.DataDir, c.DataDir)
	setString(&cfg.DatabaseURL, c.DatabaseURL)
	setString(&cfg.PasswordScheme, c.PasswordScheme)
	setString(&cfg.PasswordSalt, c.PasswordSalt)
	setString(&cfg.AdminEmail, c.AdminEmail)
	setString(&cfg.AdminPassword, c.AdminPassword)
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.LogFormat, c.LogFormat)
	setString(&cfg.PingMessage, c.PingMessage)

	if c.DBMaxOpen > 0 {
		cfg.DBMaxOpen = c.DBMaxOpen
	}
	if c.DBMaxIdle > 0 {
		cfg.DBMaxIdle = c.DBMaxIdle
	}
	if len(c.CORSOrigins) > 0 {
		cfg.CORSOrigins = c.CORSOrigins
	}

	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"token_ttl", c.TokenTTL, &cfg.TokenTTL},
		{"db_max_lifetime", c.DBMaxLifetime, &cfg.DBMaxLifetime},
		{"shutdown_timeout", c.ShutdownTimeout, &cfg.ShutdownTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := parseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %w", d.name, err)
		}
		*d.dst = v
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
