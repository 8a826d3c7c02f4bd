// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all assetdex configuration.
type Config struct {
	// Server (serve mode)
	ListenAddr  string
	MetricsAddr string

	// Logging
	LogLevel  string
	LogFormat string

	// Asset scanning
	AssetRoot     string
	IndexFilename string

	// Output backend ("local" or "s3", default: "local")
	StorageBackend  string
	LocalOutputPath string

	// S3 output (used when StorageBackend is "s3")
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3UseSSL    bool
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      envOr("LISTEN_ADDR", ":8080"),
		MetricsAddr:     envOr("METRICS_ADDR", ":9090"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "json"),
		AssetRoot:       envOr("ASSET_ROOT", "assets"),
		IndexFilename:   envOr("INDEX_FILENAME", "asset-index.json"),
		StorageBackend:  envOr("STORAGE_BACKEND", "local"),
		LocalOutputPath: envOr("LOCAL_OUTPUT_PATH", "assetdex-out"),
		S3Endpoint:      envOr("S3_ENDPOINT", "http://localhost:9000"),
		S3Bucket:        envOr("S3_BUCKET", "assetdex"),
		S3AccessKey:     envOr("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:     envOr("S3_SECRET_KEY", "minioadmin"),
		S3Region:        envOr("S3_REGION", "us-east-1"),
		S3UseSSL:        envBool("S3_USE_SSL", false),
	}

	switch cfg.StorageBackend {
	case "local", "s3":
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
	}
	if cfg.IndexFilename == "" {
		return nil, fmt.Errorf("INDEX_FILENAME must not be empty")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
