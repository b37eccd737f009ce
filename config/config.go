// Package config loads process configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings. Engine behavior is not configured
// here; these knobs belong to the surrounding application.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// OutputDir is where batch conversion results are stored.
	OutputDir string

	// ModelDir holds the ONNX style-transfer models for the neural backend
	// (gocv builds only).
	ModelDir string

	// MaxUploadMB caps the size of a single uploaded image.
	MaxUploadMB int

	// CleanupMaxAge is how long stored outputs are kept.
	CleanupMaxAge time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads config from the environment. A .env file is loaded when
// present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getenv("CARTOONIZE_ADDR", ":8000"),
		OutputDir:     getenv("CARTOONIZE_OUTPUT_DIR", "outputs"),
		ModelDir:      getenv("CARTOONIZE_MODEL_DIR", "models"),
		MaxUploadMB:   10,
		CleanupMaxAge: 24 * time.Hour,
		LogLevel:      getenv("CARTOONIZE_LOG_LEVEL", "info"),
	}

	if v := os.Getenv("CARTOONIZE_MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CARTOONIZE_MAX_UPLOAD_MB: %q", v)
		}
		cfg.MaxUploadMB = n
	}

	if v := os.Getenv("CARTOONIZE_CLEANUP_MAX_AGE_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CARTOONIZE_CLEANUP_MAX_AGE_HOURS: %q", v)
		}
		cfg.CleanupMaxAge = time.Duration(n) * time.Hour
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
