package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting of the service.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	LogFile  string

	APIBaseURL         string
	APITimeout         time.Duration
	BreakerMaxFailures int
	BreakerTimeout     time.Duration

	DatabaseURL       string
	PreferencesDBPath string

	RedisURL      string // host:port or redis:// URL
	RedisPassword string
	CacheTTL      time.Duration

	PrefersColorScheme string
	CollationLocale    string

	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	ImportWorkers     int

	UseHTTPS    bool
	TLSCertFile string
	TLSKeyFile  string
}

// Load reads .env if present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "logs/app.log"),

		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:4000"), "/"),
		APITimeout:         getDuration("API_TIMEOUT", 10*time.Second),
		BreakerMaxFailures: getInt("BREAKER_MAX_FAILURES", 5),
		BreakerTimeout:     getDuration("BREAKER_TIMEOUT", 30*time.Second),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		PreferencesDBPath: getEnv("PREFERENCES_DB_PATH", "gametracker.db"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),

		PrefersColorScheme: strings.ToLower(os.Getenv("PREFERS_COLOR_SCHEME")),
		CollationLocale:    getEnv("COLLATION_LOCALE", "es"),

		AllowedOrigins:    getList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		RateLimitRequests: getInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		ImportWorkers:     getInt("IMPORT_WORKERS", 4),

		UseHTTPS:    os.Getenv("USE_HTTPS") == "true",
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
	}
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
