package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	RunsDBPath    string
	LogLevel      string
	SampleRows    int
	SizeUnitBytes int64
}

// Load reads MRDATAGEN_* settings from the environment. A .env file in the
// working directory is loaded first; variables already set win.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		RunsDBPath:    getEnv("MRDATAGEN_RUNS_DB", "./mrdatagen-runs.sqlite"),
		LogLevel:      getEnv("MRDATAGEN_LOG_LEVEL", "info"),
		SampleRows:    int(getEnvInt("MRDATAGEN_SAMPLE_ROWS", 5)),
		SizeUnitBytes: getEnvInt("MRDATAGEN_SIZE_UNIT_BYTES", 1<<20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
