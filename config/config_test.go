package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"SAYTHENUMBER_API_URL", "NOW_PATH", "DELAY_PATH", "MAX_DIGITS", "REQUEST_TIMEOUT",
		"RATE_LIMIT_PER_MINUTE", "PORT", "HISTORY_SIZE", "REDIS_ADDR", "REDIS_DB",
		"CACHE_TTL_SECONDS", "KAFKA_BOOTSTRAP_SERVERS", "KAFKA_TOPIC", "S3_BUCKET",
		"S3_PREFIX", "S3_USE_PATH_STYLE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "/num_to_english", cfg.NowPath)
	assert.Equal(t, "/num_to_english", cfg.DelayPath)
	assert.Equal(t, 21, cfg.MaxDigits)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.RatePerMinute)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 50, cfg.HistorySize)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "saythenumber-attempts", cfg.Kafka.Topic)
	assert.Equal(t, DefaultS3Prefix, cfg.S3.Prefix)
	assert.False(t, cfg.S3.UsePathStyle)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SAYTHENUMBER_API_URL", "https://numbers.example.com")
	t.Setenv("DELAY_PATH", "/num_to_english_slow")
	t.Setenv("MAX_DIGITS", "15")
	t.Setenv("REQUEST_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "k1:9092, k2:9092,")
	t.Setenv("S3_BUCKET", "history")
	t.Setenv("S3_USE_PATH_STYLE", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://numbers.example.com", cfg.APIURL)
	assert.Equal(t, "/num_to_english_slow", cfg.DelayPath)
	assert.Equal(t, 15, cfg.MaxDigits)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "history", cfg.S3.Bucket)
	assert.True(t, cfg.S3.UsePathStyle)

	opts := cfg.ClientOptions()
	assert.Equal(t, 120, opts.RatePerMinute)
	assert.Equal(t, 45*time.Second, opts.Timeout)
}

func TestRequestTimeoutSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "10")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestFromEnvInvalid(t *testing.T) {
	cases := map[string]string{
		"MAX_DIGITS":        "many",
		"PORT":              "80a",
		"REQUEST_TIMEOUT":   "soon",
		"REDIS_DB":          "zero",
		"CACHE_TTL_SECONDS": "1h",
		"S3_USE_PATH_STYLE": "sometimes",
		"HISTORY_SIZE":      "lots",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}

	t.Run("non-positive max digits", func(t *testing.T) {
		t.Setenv("MAX_DIGITS", "0")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
