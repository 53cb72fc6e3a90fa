package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment.
type Config struct {
	Addr            string
	DatabaseURL     string
	ShutdownTimeout time.Duration

	Redis RedisConfig
	Kafka KafkaConfig
	S3    S3Config
}

// RedisConfig holds connection settings for the catalog read cache.
// An empty URL disables Redis entirely.
type RedisConfig struct {
	URL          string
	CacheTTL     time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds broker settings for application lifecycle events.
// Empty Brokers disables event publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// S3Config holds object storage settings for uploaded document files.
// An empty Endpoint disables the object store (deletes become metadata-only).
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:            envOr("INTAKE_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("INTAKE_DATABASE_URL"),
		ShutdownTimeout: envDuration("INTAKE_SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("INTAKE_REDIS_URL"),
			CacheTTL:     envDuration("INTAKE_REDIS_CACHE_TTL", 5*time.Minute),
			PoolSize:     envInt("INTAKE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("INTAKE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("INTAKE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("INTAKE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("INTAKE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("INTAKE_KAFKA_BROKERS"),
			Topic:   envOr("INTAKE_KAFKA_TOPIC", "intake.application-events"),
		},
		S3: S3Config{
			Endpoint:  os.Getenv("INTAKE_S3_ENDPOINT"),
			AccessKey: os.Getenv("INTAKE_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("INTAKE_S3_SECRET_KEY"),
			Bucket:    envOr("INTAKE_S3_BUCKET", "intake-documents"),
			Region:    envOr("INTAKE_S3_REGION", "us-east-1"),
			UseSSL:    os.Getenv("INTAKE_S3_USE_SSL") == "true",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
