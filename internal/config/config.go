package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Wager uniqueness policies
const (
	WagerPolicySingle   = "single"
	WagerPolicyMultiple = "multiple"
)

// Realtime change sources
const (
	RealtimeSourcePostgres = "postgres"
	RealtimeSourceLocal    = "local"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Twilio   TwilioConfig
	Redis    RedisConfig
	Realtime RealtimeConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver      string
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	AutoMigrate bool
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port              string
	CORSOrigins       []string
	StaticDir         string
	AuthRatePerMinute int
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret     string
	SessionTTL    time.Duration
	PublicBaseURL string
	WagerPolicy   string
	DraftTTL      time.Duration
}

// TwilioConfig holds Twilio Verify credentials
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	VerifySID  string
	BaseURL    string
}

// RedisConfig holds the session/draft store location. An empty URL selects the in-memory store.
type RedisConfig struct {
	URL string
}

// RealtimeConfig selects where change notifications come from
type RealtimeConfig struct {
	Source string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "postgres"),
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			DBName:      getEnv("DB_NAME", "monkeybets"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Port:              getEnv("SERVER_PORT", "8080"),
			CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
			StaticDir:         getEnv("STATIC_DIR", "web/dist"),
			AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 10),
		},
		App: AppConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
			WagerPolicy:   strings.ToLower(getEnv("WAGER_POLICY", WagerPolicySingle)),
			DraftTTL:      getEnvDuration("DRAFT_TTL", 30*time.Minute),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			VerifySID:  getEnv("TWILIO_VERIFY_SID", ""),
			BaseURL:    getEnv("TWILIO_BASE_URL", "https://verify.twilio.com"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
	}

	defaultSource := RealtimeSourceLocal
	if config.Database.Driver == "postgres" {
		defaultSource = RealtimeSourcePostgres
	}
	config.Realtime.Source = strings.ToLower(getEnv("REALTIME_SOURCE", defaultSource))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and enumerations
func (c *Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.VerifySID == "" {
		return fmt.Errorf("Twilio Verify credentials are required")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.App.WagerPolicy {
	case WagerPolicySingle, WagerPolicyMultiple:
	default:
		return fmt.Errorf("WAGER_POLICY must be %q or %q", WagerPolicySingle, WagerPolicyMultiple)
	}

	switch c.Realtime.Source {
	case RealtimeSourcePostgres:
		if c.Database.Driver != "postgres" {
			return fmt.Errorf("REALTIME_SOURCE=postgres requires DB_DRIVER=postgres")
		}
	case RealtimeSourceLocal:
	default:
		return fmt.Errorf("unsupported REALTIME_SOURCE %q", c.Realtime.Source)
	}

	return nil
}

// GetDSN returns the database connection string. For Postgres this is a URL so
// the same value works for gorm, lib/pq's listener and golang-migrate.
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Driver == "sqlite" {
		return c.Database.DBName + ".db"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if value, err := time.ParseDuration(raw); err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
