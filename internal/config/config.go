package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Falco0906/internship-portal/pkg/validator"

	"github.com/joho/godotenv"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017/internship_portal"
	DefaultDatabaseName = "internship_portal"
)

// Config holds all application configuration. It is resolved once at startup.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port               string `validate:"required"`
	Environment        string
	ServesStaticAssets bool
	StaticDir          string
	ReadTimeout        time.Duration `validate:"gt=0"`
	WriteTimeout       time.Duration `validate:"gt=0"`
	IdleTimeout        time.Duration `validate:"gt=0"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`
	TLSHosts           []string
	CertCacheDir       string
}

// DatabaseConfig describes how to reach MongoDB. Never mutated after Load.
type DatabaseConfig struct {
	URI                    string        `validate:"required"`
	Name                   string        `validate:"required"`
	ServerSelectionTimeout time.Duration `validate:"gt=0"`
	SocketTimeout          time.Duration `validate:"gt=0"`
	MaxPoolSize            uint64        `validate:"gt=0,gtefield=MinPoolSize"`
	MinPoolSize            uint64
	RetryWrites            bool
	WriteConcern           string `validate:"required"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig guards mutating internship routes. An empty secret disables it.
type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig configures the per-IP limiter on /api. Zero requests disables it.
type RateLimitConfig struct {
	Requests int           `validate:"gte=0"`
	Window   time.Duration `validate:"gt=0"`
}

// Load reads configuration from the environment (and a .env file if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var p envParser
	env := getEnv("NODE_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "5000"),
			Environment:        env,
			ServesStaticAssets: env == "production",
			StaticDir:          getEnv("STATIC_DIR", "../client/build"),
			ReadTimeout:        p.getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       p.getDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:        p.getDuration("HTTP_IDLE_TIMEOUT", 90*time.Second),
			ShutdownTimeout:    p.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			TLSHosts:           parseList(getEnv("TLS_HOSTS", "")),
			CertCacheDir:       getEnv("CERT_CACHE_DIR", "certs"),
		},
		Database: DatabaseConfig{
			URI:                    getEnv("MONGODB_URI", DefaultMongoURI),
			Name:                   getEnv("MONGODB_DB_NAME", DefaultDatabaseName),
			ServerSelectionTimeout: p.getDuration("MONGODB_SERVER_SELECTION_TIMEOUT", 30*time.Second),
			SocketTimeout:          p.getDuration("MONGODB_SOCKET_TIMEOUT", 45*time.Second),
			MaxPoolSize:            p.getUint("MONGODB_MAX_POOL_SIZE", 10),
			MinPoolSize:            p.getUint("MONGODB_MIN_POOL_SIZE", 2),
			RetryWrites:            p.getBool("MONGODB_RETRY_WRITES", true),
			WriteConcern:           getEnv("MONGODB_WRITE_CONCERN", "majority"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(getEnv("CORS_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			Requests: p.getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   p.getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		LogLevel: getEnv("LOG_LEVEL", ""),
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section for internally consistent values.
func (c *Config) Validate() error {
	for name, section := range map[string]interface{}{
		"server":     c.Server,
		"database":   c.Database,
		"rate limit": c.RateLimit,
	} {
		if err := validator.Struct(section); err != nil {
			return fmt.Errorf("invalid %s config: %w", name, err)
		}
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether stack traces may be exposed to clients.
// Every environment other than production counts as development.
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// getEnv retrieves an environment variable or returns a fallback value.
// An empty value counts as unset.
func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// envParser reads typed variables, collecting every malformed value so Load
// can report them together instead of silently using a default.
type envParser struct {
	errs []error
}

func (p *envParser) fail(key, value, kind string) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, kind))
}

func (p *envParser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid environment: %w", errors.Join(p.errs...))
}

func (p *envParser) getDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, "duration")
		return fallback
	}
	return d
}

func (p *envParser) getInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, "integer")
		return fallback
	}
	return n
}

func (p *envParser) getUint(key string, fallback uint64) uint64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		p.fail(key, value, "non-negative integer")
		return fallback
	}
	return n
}

func (p *envParser) getBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, "boolean")
		return fallback
	}
	return b
}

// parseList splits a comma-separated list, dropping blanks
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
