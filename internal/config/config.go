// Package config loads and validates environment variables at startup.
// Fail-fast: an invalid value stops the process before anything is wired.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"aivs/query-service/internal/submission"
)

// Config holds all runtime configuration for the query service.
type Config struct {
	Port         string
	GRPCPort     string
	EndpointURL  string
	PingURL      string
	Policy       submission.ValidationPolicy
	Timeout      time.Duration // 0 = wait for the caller's context
	InFlight     bool          // refuse overlapping submissions
	PingInterval time.Duration // 0 disables the warm-up pinger
	DatabaseURL  string        // optional: diagnostics table
	RedisURL     string        // optional: status events
}

// Load reads .env (when present) and the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, using environment variables")
	}

	endpoint := getEnv("QUERY_ENDPOINT_URL", submission.DefaultEndpoint)
	if err := checkURL("QUERY_ENDPOINT_URL", endpoint); err != nil {
		return nil, err
	}

	pingURL := getEnv("QUERY_PING_URL", submission.PingURLFor(endpoint))
	if err := checkURL("QUERY_PING_URL", pingURL); err != nil {
		return nil, err
	}

	policy, err := submission.ParsePolicy(getEnv("QUERY_VARIANT", submission.PolicyContact.Name))
	if err != nil {
		return nil, fmt.Errorf("QUERY_VARIANT: %w", err)
	}

	timeout, err := getNonNegativeInt("QUERY_TIMEOUT_SECONDS", 0)
	if err != nil {
		return nil, err
	}

	pingMinutes, err := getNonNegativeInt("QUERY_PING_INTERVAL_MINUTES", 10)
	if err != nil {
		return nil, err
	}

	inFlight := false
	if s := os.Getenv("QUERY_INFLIGHT_GUARD"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("QUERY_INFLIGHT_GUARD must be a boolean, got %q", s)
		}
		inFlight = v
	}

	return &Config{
		Port:         getEnv("QUERY_PORT", "8083"),
		GRPCPort:     getEnv("QUERY_GRPC_PORT", "9083"),
		EndpointURL:  endpoint,
		PingURL:      pingURL,
		Policy:       policy,
		Timeout:      time.Duration(timeout) * time.Second,
		InFlight:     inFlight,
		PingInterval: time.Duration(pingMinutes) * time.Minute,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getNonNegativeInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, s)
	}
	return v, nil
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}
