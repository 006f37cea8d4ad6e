package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// UpstreamTimeout bounds every call to the news API.
const UpstreamTimeout = 10 * time.Second

const DefaultBaseURL = "https://gnews.io/api/v4"

var ErrMissingAPIKey = errors.New("GNEWS_API_KEY is required")

type Config struct {
	GNewsAPIKey     string
	GNewsBaseURL    string
	Port            int
	Debug           bool
	Environment     string
	Version         string
	AllowedOrigins  []string
	NATSUrl         string
	RateLimitRPS    float64
	RateLimitBurst  int
	FromDateUTC     bool
	UpstreamTimeout time.Duration
}

// Load reads the process configuration from the environment, after merging
// a .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] Could not read .env file: %v", err)
	}

	env := getEnv("APP_ENV", getEnv("FLASK_ENV", "production"))

	cfg := &Config{
		GNewsAPIKey:     getEnv("GNEWS_API_KEY", ""),
		GNewsBaseURL:    strings.TrimRight(getEnv("GNEWS_BASE_URL", DefaultBaseURL), "/"),
		Port:            getIntEnv("PORT", 5000),
		Debug:           env == "development",
		Environment:     env,
		Version:         getEnv("APP_VERSION", "dev"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		NATSUrl:         getEnv("NATS_URL", ""),
		RateLimitRPS:    getFloatEnv("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  getIntEnv("RATE_LIMIT_BURST", 10),
		FromDateUTC:     getBoolEnv("FROM_DATE_UTC", false),
		UpstreamTimeout: UpstreamTimeout,
	}

	if cfg.GNewsAPIKey == "" {
		log.Println("[ERROR] GNEWS_API_KEY environment variable is not set!")
		log.Println("[ERROR] Please set your GNEWS_API_KEY environment variable")
		log.Println("[ERROR] You can get a free API key at https://gnews.io/")
		return nil, ErrMissingAPIKey
	}
	log.Println("[INFO] GNEWS_API_KEY is set and ready")

	log.Printf("Config loaded - Port: %d, Env: %s, BaseURL: %s, NATS: %t, RateLimit: %.1f rps",
		cfg.Port, cfg.Environment, cfg.GNewsBaseURL, cfg.NATSUrl != "", cfg.RateLimitRPS)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
