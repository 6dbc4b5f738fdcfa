package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	MongoURI string
	NATSUrl  string

	// Service account credentials
	GooglePrivateKey   string
	GoogleClientEmail  string
	GoogleClientID     string
	ImpersonateSubject string

	// Channels tracked by the snapshot worker
	ChannelIDs    []string
	FetchInterval time.Duration

	// Cache-Control header values for stats responses
	CacheMaxAge               int
	CacheStaleWhileRevalidate int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                      getEnv("PORT", "8080"),
		MongoURI:                  getEnv("MONGO_URI", ""),
		NATSUrl:                   getEnv("NATS_URL", "nats://localhost:4222"),
		GooglePrivateKey:          normalizePrivateKey(os.Getenv("GOOGLE_PRIVATE_KEY")),
		GoogleClientEmail:         os.Getenv("GOOGLE_CLIENT_EMAIL"),
		GoogleClientID:            os.Getenv("GOOGLE_CLIENT_ID"),
		ImpersonateSubject:        getEnv("GOOGLE_IMPERSONATE_SUBJECT", ""),
		ChannelIDs:                splitChannelIDs(getEnv("CHANNEL_IDS", "")),
		FetchInterval:             getDuration("FETCH_INTERVAL", time.Hour),
		CacheMaxAge:               getInt("CACHE_MAX_AGE", 86400),
		CacheStaleWhileRevalidate: getInt("CACHE_STALE_WHILE_REVALIDATE", 59),
	}

	if cfg.GooglePrivateKey == "" {
		log.Fatal("GOOGLE_PRIVATE_KEY not set")
	}
	if cfg.GoogleClientEmail == "" {
		log.Fatal("GOOGLE_CLIENT_EMAIL not set")
	}
	if cfg.GoogleClientID == "" {
		log.Fatal("GOOGLE_CLIENT_ID not set")
	}

	return cfg
}

// normalizePrivateKey turns the escaped `\n` sequences that PEM keys pick up
// when stored in a single-line env var back into real newlines.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func splitChannelIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[WARN] Invalid value for %s: %q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("[WARN] Invalid value for %s: %q, using default %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
