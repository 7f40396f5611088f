package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// readDotEnv reads KEY=VALUE pairs from path. A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vals, nil
}

// withDotEnv layers the real environment over the .env values.
func withDotEnv(lookup func(string) (string, bool), dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("PORT"); ok {
		cfg.HTTPAddr = listenAddr(v)
	}

	for key, dst := range map[string]*string{
		"AUTH_SECRET":     &cfg.AuthSecret,
		"STORE_BACKEND":   &cfg.StoreBackend,
		"DATA_DIR":        &cfg.DataDir,
		"DATABASE_URL":    &cfg.DatabaseURL,
		"PASSWORD_SCHEME": &cfg.PasswordScheme,
		"PASSWORD_SALT":   &cfg.PasswordSalt,
		"ADMIN_EMAIL":     &cfg.AdminEmail,
		"ADMIN_PASSWORD":  &cfg.AdminPassword,
		"LOG_LEVEL":       &cfg.LogLevel,
		"LOG_FORMAT":      &cfg.LogFormat,
		"PING_MESSAGE":    &cfg.PingMessage,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	for key, dst := range map[string]*int{
		"DB_MAX_OPEN": &cfg.DBMaxOpen,
		"DB_MAX_IDLE": &cfg.DBMaxIdle,
	} {
		v, ok := get(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	for key, dst := range map[string]*time.Duration{
		"TOKEN_TTL":        &cfg.TokenTTL,
		"DB_MAX_LIFETIME":  &cfg.DBMaxLifetime,
		"SHUTDOWN_TIMEOUT": &cfg.ShutdownTimeout,
	} {
		v, ok := get(key)
		if !ok {
			continue
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := get("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}

	return nil
}

// parseDuration accepts Go durations such as "15m", "168h" or "20s", and a
// bare integer meaning minutes.
func parseDuration(s string) (time.Duration, error) {
	if mins, err := strconv.Atoi(s); err == nil {
		return time.Duration(mins) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// listenAddr turns a bare port into ":port".
func listenAddr(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return ":" + v
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
