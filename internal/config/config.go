package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Site     SiteConfig
	Redis    RedisConfig
	Log      LogConfig

	// SecretGenerated is set when no SECRET_KEY was supplied and a random one was used.
	SecretGenerated bool
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// TrustedProxies lists the reverse proxies allowed to set X-Forwarded-For.
	// Empty means the client address is taken from the TCP connection.
	TrustedProxies []*net.IPNet
}

// DatabaseConfig contains database connection settings.
// An empty URL selects the embedded SQLite file at SQLitePath.
type DatabaseConfig struct {
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SeedDefaults    bool
}

// SecurityConfig contains security-related settings.
type SecurityConfig struct {
	SecretKey         string
	SessionName       string
	SessionMaxAge     int
	BcryptCost        int
	RateLimitRequests int
	RateLimitWindow   time.Duration
	LoginMaxAttempts  int
	LoginLockoutTime  time.Duration
	JWTExpiry         time.Duration
}

// SiteConfig contains site-wide defaults. Values stored in site settings take precedence on pages.
type SiteConfig struct {
	Name string
	URL  string
}

// RedisConfig enables the optional visit dedup cache.
type RedisConfig struct {
	URL string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment (and a .env file when present).
func Load() (*Config, error) {
	// A missing .env file is normal in production.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 7860),
			Host:            getEnv("COLLEGE_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvDuration("COLLEGE_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("COLLEGE_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("COLLEGE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			SQLitePath:      getEnv("COLLEGE_SQLITE_PATH", "./data/college.db"),
			MaxOpenConns:    getEnvInt("COLLEGE_DB_MAX_OPEN", 10),
			MaxIdleConns:    getEnvInt("COLLEGE_DB_MAX_IDLE", 5),
			ConnMaxLifetime: getEnvDuration("COLLEGE_DB_CONN_LIFETIME", 5*time.Minute),
			SeedDefaults:    getEnvBool("COLLEGE_SEED_DEFAULTS", true),
		},
		Security: SecurityConfig{
			SecretKey:         getEnv("SECRET_KEY", ""),
			SessionName:       getEnv("COLLEGE_SESSION_NAME", "college_session"),
			SessionMaxAge:     getEnvInt("COLLEGE_SESSION_MAX_AGE", 86400), // 1 day
			BcryptCost:        getEnvInt("COLLEGE_BCRYPT_COST", 12),
			RateLimitRequests: getEnvInt("COLLEGE_RATE_LIMIT", 120),
			RateLimitWindow:   getEnvDuration("COLLEGE_RATE_WINDOW", time.Minute),
			LoginMaxAttempts:  getEnvInt("COLLEGE_LOGIN_MAX_ATTEMPTS", 5),
			LoginLockoutTime:  getEnvDuration("COLLEGE_LOGIN_LOCKOUT", 15*time.Minute),
			JWTExpiry:         getEnvDuration("COLLEGE_JWT_EXPIRY", 12*time.Hour),
		},
		Site: SiteConfig{
			Name: getEnv("COLLEGE_SITE_NAME", "Chandrika Jain Degree Mahavidyalaya"),
			URL:  getEnv("COLLEGE_SITE_URL", "http://localhost:7860"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that all required configuration is present and valid.
func (c *Config) validate() error {
	var errs []string

	// Generate secret key if not provided (for development only)
	if c.Security.SecretKey == "" {
		key, err := generateRandomKey(32)
		if err != nil {
			errs = append(errs, "failed to generate secret key")
		} else {
			c.Security.SecretKey = key
			c.SecretGenerated = true
		}
	}

	if len(c.Security.SecretKey) < 16 {
		errs = append(errs, "SECRET_KEY must be at least 16 characters")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "PORT must be between 1 and 65535")
	}

	proxies, err := parseCIDRs(getEnv("COLLEGE_TRUSTED_PROXIES", ""))
	if err != nil {
		errs = append(errs, "COLLEGE_TRUSTED_PROXIES: "+err.Error())
	}
	c.Server.TrustedProxies = proxies

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		errs = append(errs, "COLLEGE_BCRYPT_COST must be between 4 and 31")
	}

	if c.Security.RateLimitRequests < 1 {
		errs = append(errs, "COLLEGE_RATE_LIMIT must be positive")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, "LOG_FORMAT must be one of: json, console")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// Address returns the server address string.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsHTTPS reports whether the public site URL is served over TLS.
func (c *Config) IsHTTPS() bool {
	return strings.HasPrefix(c.Site.URL, "https://")
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseCIDRs parses a comma-separated list of CIDRs or bare IPs.
func parseCIDRs(raw string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("invalid address %q", part)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func generateRandomKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
