package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         string
	DBPath       string
	RemoteURL    string
	RemoteToken  string
	KafkaBrokers []string

	SyncInterval    time.Duration
	SyncMaxAttempts int
	FetchLimit      int
	DebounceQuiet   time.Duration
	UploadQueueSize int
	UploadDelay     time.Duration
	RemoteTimeout   time.Duration
}

func Load() Config {
	cfg := Config{
		Port:            envOrDefault("JJC_PORT", "3000"),
		DBPath:          envOrDefault("JJC_DB_PATH", "attendance.db"),
		RemoteURL:       envOrDefault("JJC_REMOTE_URL", "http://localhost:8080"),
		RemoteToken:     strings.TrimSpace(os.Getenv("JJC_REMOTE_TOKEN")),
		SyncInterval:    durationOrDefault("JJC_SYNC_INTERVAL", 2*time.Minute),
		SyncMaxAttempts: intOrDefault("JJC_SYNC_MAX_ATTEMPTS", 10),
		FetchLimit:      intOrDefault("JJC_FETCH_LIMIT", 500),
		DebounceQuiet:   durationOrDefault("JJC_DEBOUNCE_QUIET", 3*time.Second),
		UploadQueueSize: intOrDefault("JJC_UPLOAD_QUEUE_SIZE", 256),
		UploadDelay:     durationOrDefault("JJC_UPLOAD_DELAY", 500*time.Millisecond),
		RemoteTimeout:   durationOrDefault("JJC_REMOTE_TIMEOUT", 15*time.Second),
	}
	if brokers := strings.TrimSpace(os.Getenv("JJC_KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	}
	return cfg
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intOrDefault(key string, fallback int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && i > 0 {
		return i
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && d > 0 {
		return d
	}
	return fallback
}
