// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Accepted values for enumerated settings.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"

	TokenFormatJWT    = "jwt"
	TokenFormatPASETO = "paseto"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"

	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// bcrypt accepts costs in [4, 31].
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// MinJWTSecretLength is the shortest JWT_SECRET accepted.
const MinJWTSecretLength = 16

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
	Metrics MetricsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects and locates the persistent store.
type StorageConfig struct {
	DataPath string // Directory for the database and the generated signing key
	Driver   string // badger or sqlite
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string
	PublicURL      string        // Prefix for share links; links are relative when empty
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	AllowedOrigins []string      // CORS origins (default: *)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	TokenFormat string
	// JWTSecret signs JWT session tokens. When empty outside production a
	// key file under DataPath is used instead.
	JWTSecret      string
	TokenTTL       time.Duration // 0 means tokens never expire
	PasswordHasher string
	BcryptCost     int
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration from args and the environment with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("brain-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for persistent data")
	storeDriver := fs.String("store-driver", "", "Store backend (badger, sqlite)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 3000)")
	publicURL := fs.String("public-url", "", "Public base URL used in share links")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated CORS origins (default: *)")

	// Auth flags
	tokenFormat := fs.String("token-format", "", "Session token format (jwt, paseto)")
	tokenTTL := fs.String("token-ttl", "", "Session token lifetime, 0 for no expiry")
	passwordHasher := fs.String("password-hasher", "", "Password hash algorithm (bcrypt, argon2id)")
	bcryptCost := fs.String("bcrypt-cost", "", "bcrypt cost factor (default: 10)")

	metrics := fs.String("metrics", "", "Expose Prometheus metrics (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Variables already in the environment win over the file; a missing
	// file is fine.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", EnvDevelopment),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
			Driver:   getConfigValue(*storeDriver, "STORE_DRIVER", DriverBadger),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "3000"),
			PublicURL:      getConfigValue(*publicURL, "SERVER_PUBLIC_URL", ""),
			AllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			TokenFormat:    getConfigValue(*tokenFormat, "TOKEN_FORMAT", TokenFormatJWT),
			JWTSecret:      os.Getenv("JWT_SECRET"),
			PasswordHasher: getConfigValue(*passwordHasher, "PASSWORD_HASHER", HasherBcrypt),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolConfigValue(*metrics, "METRICS_ENABLED", true),
		},
	}

	var err error
	if cfg.Auth.BcryptCost, err = getIntConfigValue(*bcryptCost, "BCRYPT_COST", 10); err != nil {
		return nil, fmt.Errorf("invalid bcrypt cost: %w", err)
	}
	if cfg.Auth.TokenTTL, err = getDurationConfigValue(*tokenTTL, "TOKEN_TTL", "0"); err != nil {
		return nil, fmt.Errorf("invalid token TTL: %w", err)
	}
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	switch c.Storage.Driver {
	case DriverBadger, DriverSQLite:
	default:
		return fmt.Errorf("invalid store driver: %q (must be badger or sqlite)", c.Storage.Driver)
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	switch c.Auth.TokenFormat {
	case TokenFormatJWT:
		if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < MinJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
		}
		if c.IsProduction() && c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is required in production")
		}
	case TokenFormatPASETO:
	default:
		return fmt.Errorf("invalid token format: %q (must be jwt or paseto)", c.Auth.TokenFormat)
	}

	if c.Auth.TokenTTL < 0 {
		return errors.New("token TTL cannot be negative")
	}

	switch c.Auth.PasswordHasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("invalid password hasher: %q (must be bcrypt or argon2id)", c.Auth.PasswordHasher)
	}

	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.Auth.BcryptCost, minBcryptCost, maxBcryptCost)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/SecondBrain/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "SecondBrain", "data")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable (including values loaded from .env).
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(strValue)
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	return time.ParseDuration(getConfigValue(flagValue, envKey, defaultValue))
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
