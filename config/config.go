// Package config loads runtime settings from the environment, reading a .env
// file first when one exists.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"saythenumber/client"
	"saythenumber/history"
	"saythenumber/orchestrator"
	"saythenumber/shared/kafka"
)

// Defaults
const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultPort           = 8080
	DefaultRequestTimeout = 30 * time.Second
	DefaultCacheTTL       = 24 * time.Hour
	DefaultKafkaGroupID   = "saythenumber-watch"
	DefaultS3Prefix       = "saythenumber/history"
)

// Config holds every setting the binaries read
type Config struct {
	APIURL         string
	NowPath        string
	DelayPath      string
	MaxDigits      int
	RequestTimeout time.Duration
	// RatePerMinute caps outgoing conversion calls; 0 disables pacing
	RatePerMinute int
	Port          int
	HistorySize   int

	Redis RedisConfig
	Kafka KafkaConfig
	S3    S3Config

	// PreferencesPath overrides the default preferences file location
	PreferencesPath string
}

// RedisConfig enables the conversion cache when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig enables attempt publishing when Brokers is non-empty
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// S3Config enables history export when Bucket is set
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{
		APIURL:          getEnvOrDefault("SAYTHENUMBER_API_URL", DefaultAPIURL),
		NowPath:         getEnvOrDefault("NOW_PATH", client.DefaultNowPath),
		DelayPath:       getEnvOrDefault("DELAY_PATH", client.DefaultDelayPath),
		PreferencesPath: os.Getenv("PREFERENCES_PATH"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASS"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
			Topic:   getEnvOrDefault("KAFKA_TOPIC", kafka.DefaultTopic),
			GroupID: getEnvOrDefault("KAFKA_GROUP_ID", DefaultKafkaGroupID),
		},
		S3: S3Config{
			Bucket:  os.Getenv("S3_BUCKET"),
			Prefix:  getEnvOrDefault("S3_PREFIX", DefaultS3Prefix),
			Region:  os.Getenv("AWS_REGION"),
			Profile: os.Getenv("AWS_PROFILE"),
		},
	}

	if cfg.MaxDigits, err = getEnvInt("MAX_DIGITS", orchestrator.DefaultMaxDigits); err != nil {
		return nil, err
	}
	if cfg.MaxDigits <= 0 {
		return nil, fmt.Errorf("MAX_DIGITS must be positive, got %d", cfg.MaxDigits)
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.RatePerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 0); err != nil {
		return nil, err
	}
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.HistorySize, err = getEnvInt("HISTORY_SIZE", history.DefaultSize); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", int(DefaultCacheTTL/time.Second))
	if err != nil {
		return nil, err
	}
	cfg.Redis.TTL = time.Duration(ttlSeconds) * time.Second
	if cfg.S3.UsePathStyle, err = getEnvBool("S3_USE_PATH_STYLE", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ClientOptions builds conversion client options from the config
func (c *Config) ClientOptions() client.Options {
	return client.Options{
		NowPath:       c.NowPath,
		DelayPath:     c.DelayPath,
		Timeout:       c.RequestTimeout,
		RatePerMinute: c.RatePerMinute,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("45s") or a bare number of seconds
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return b, nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
