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
	App      AppConfig
	Resource ResourceConfig
	Session  SessionConfig
	Infra    InfraConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	InstanceID         string
	LogFilePath        string
	TranscriptLogPath  string
	CorsAllowedOrigins string
	MetricsEnabled     bool
}

type ResourceConfig struct {
	RemoteBaseURL  string
	LocalDir       string
	CacheDir       string
	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	PageSize       int
	ArtifactDriver string // "file" or "redis"
}

type SessionConfig struct {
	TTL time.Duration
}

type InfraConfig struct {
	RedisURL    string
	NatsURL     string
	NatsEnabled bool

	OtelEnabled     bool
	OtelEndpoint    string
	OtelSampleRatio float64
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	hostname, _ := os.Hostname()

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			InstanceID:         getEnv("INSTANCE_ID", hostname),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			TranscriptLogPath:  getEnv("TRANSCRIPT_LOG_PATH", "logs/transcript.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
		},
		Resource: ResourceConfig{
			RemoteBaseURL:  getEnv("RESOURCE_REMOTE_BASE_URL", ""),
			LocalDir:       getEnv("RESOURCE_LOCAL_DIR", "resources"),
			CacheDir:       getEnv("RESOURCE_CACHE_DIR", ".cache"),
			CacheTTL:       getEnvAsDuration("RESOURCE_CACHE_TTL", 5*time.Minute),
			FetchTimeout:   getEnvAsDuration("RESOURCE_FETCH_TIMEOUT", 10*time.Second),
			PageSize:       getEnvAsInt("RESOURCE_PAGE_SIZE", 3),
			ArtifactDriver: strings.ToLower(getEnv("ARTIFACT_DRIVER", "file")),
		},
		Session: SessionConfig{
			TTL: getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		},
		Infra: InfraConfig{
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled: getEnvAsBool("NATS_ENABLED", false),

			OtelEnabled:     getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OtelSampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s", "5m") or a bare number of
// seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
