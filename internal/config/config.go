package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	JWTSecret       string        // empty disables login tokens
	TokenTTL        time.Duration // token and session lifetime
	RedisAddr       string        // empty disables the session cache
	KafkaBrokers    []string      // empty disables user events
	UserTopic       string
	RateLimit       float64 // requests per second per client, 0 disables
	RateBurst       int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		UserTopic:    getEnv("USER_TOPIC", "user-topic"),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getEnvFloat("RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = getEnvInt("RATE_BURST", 3); err != nil {
		return nil, err
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.RateLimit > 0 && cfg.RateBurst <= 0 {
		return nil, fmt.Errorf("RATE_BURST must be positive when RATE_LIMIT is set, got %d", cfg.RateBurst)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{HTTP: %s, Redis: %q, Kafka: %v, Topic: %s, RateLimit: %v/%d, JWT: *** (masked) ***}",
		c.HTTPAddr, c.RedisAddr, c.KafkaBrokers, c.UserTopic, c.RateLimit, c.RateBurst)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
