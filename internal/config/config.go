package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds process-level defaults, loaded from environment variables.
// Command-line flags override every field.
type Config struct {
	// Rendering
	Buckets int
	Width   int
	Height  int

	// Logging
	LogLevel string // debug, info, warn, error
	LogDev   bool   // console encoder instead of JSON

	// S3 document sink
	S3Region    string
	S3Endpoint  string // MinIO / LocalStack URL, empty for AWS
	S3PathStyle bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Buckets: envInt("WAVESVG_BUCKETS", 512),
		Width:   envInt("WAVESVG_WIDTH", 512),
		Height:  envInt("WAVESVG_HEIGHT", 100),

		LogLevel: envStr("WAVESVG_LOG_LEVEL", "warn"),
		LogDev:   envBool("WAVESVG_LOG_DEV", false),

		S3Region:    envStr("WAVESVG_S3_REGION", ""),
		S3Endpoint:  envStr("WAVESVG_S3_ENDPOINT", ""),
		S3PathStyle: envBool("WAVESVG_S3_PATH_STYLE", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
