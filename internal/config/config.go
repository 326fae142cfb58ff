// Package config loads the client configuration: backend endpoint URLs and
// the media/request tuning knobs. Values come from a TOML file layered with
// environment variable overrides, so nothing is hard-coded in the core.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config validation errors
var (
	// ErrMissingEndpoint is returned when a required endpoint URL is empty.
	ErrMissingEndpoint = errors.New("endpoint URL is required")
	// ErrInvalidMaxFileMB is returned when MaxFileMB is not positive.
	ErrInvalidMaxFileMB = errors.New("max_file_mb must be positive")
	// ErrInvalidMaxImagePX is returned when MaxImagePX is not positive.
	ErrInvalidMaxImagePX = errors.New("max_image_px must be positive")
	// ErrInvalidJPEGQuality is returned when JPEGQuality is outside 1-100.
	ErrInvalidJPEGQuality = errors.New("jpeg_quality must be between 1 and 100")
)

// Endpoints holds the deployment-specific backend URLs.
type Endpoints struct {
	List   string `toml:"list"`
	Get    string `toml:"get"`
	Create string `toml:"create"`
	Update string `toml:"update"`
	Delete string `toml:"delete"`
	Upload string `toml:"upload"`
}

// Config is the full configuration surface of the gallery client.
type Config struct {
	Endpoints Endpoints `toml:"endpoints"`

	// MaxFileMB is the upload size limit in megabytes.
	MaxFileMB int `toml:"max_file_mb"`

	// MaxImagePX caps the longest side of uploaded images in pixels.
	MaxImagePX int `toml:"max_image_px"`

	// JPEGQuality is the re-encode quality for downscaled lossy images (1-100).
	JPEGQuality int `toml:"jpeg_quality"`

	// ReadTimeoutSeconds bounds list/get calls.
	ReadTimeoutSeconds int `toml:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds create/update/delete calls.
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`

	// UploadTimeoutSeconds bounds media uploads, whose base64 payloads are
	// large and slow to store.
	UploadTimeoutSeconds int `toml:"upload_timeout_seconds"`

	// ReadRetries is the number of additional attempts for list/get.
	ReadRetries int `toml:"read_retries"`
}

// Default returns a Config with sensible defaults and no endpoints.
func Default() Config {
	return Config{
		MaxFileMB:            50,
		MaxImagePX:           1600,
		JPEGQuality:          80,
		ReadTimeoutSeconds:   30,
		WriteTimeoutSeconds:  30,
		UploadTimeoutSeconds: 180,
		ReadRetries:          1,
	}
}

// Load reads the TOML file at path (skipped when missing), applies
// environment overrides, and validates the result. A missing file with
// complete env configuration is a normal deployment mode.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Fall through to env overrides.
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv layers AURORA_* environment variables over the file values.
func (c *Config) applyEnv() {
	overrideString(&c.Endpoints.List, "AURORA_LIST_URL")
	overrideString(&c.Endpoints.Get, "AURORA_GET_URL")
	overrideString(&c.Endpoints.Create, "AURORA_CREATE_URL")
	overrideString(&c.Endpoints.Update, "AURORA_UPDATE_URL")
	overrideString(&c.Endpoints.Delete, "AURORA_DELETE_URL")
	overrideString(&c.Endpoints.Upload, "AURORA_UPLOAD_URL")

	overrideInt(&c.MaxFileMB, "AURORA_MAX_FILE_MB")
	overrideInt(&c.MaxImagePX, "AURORA_MAX_IMAGE_PX")
	overrideInt(&c.JPEGQuality, "AURORA_JPEG_QUALITY")
	overrideInt(&c.ReadTimeoutSeconds, "AURORA_READ_TIMEOUT_SECONDS")
	overrideInt(&c.WriteTimeoutSeconds, "AURORA_WRITE_TIMEOUT_SECONDS")
	overrideInt(&c.UploadTimeoutSeconds, "AURORA_UPLOAD_TIMEOUT_SECONDS")
	overrideInt(&c.ReadRetries, "AURORA_READ_RETRIES")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("[CONFIG] invalid integer value, keeping current",
			"key", key,
			"value", v,
			"current", *dst,
		)
		return
	}
	*dst = n
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	endpoints := map[string]string{
		"list":   c.Endpoints.List,
		"get":    c.Endpoints.Get,
		"create": c.Endpoints.Create,
		"update": c.Endpoints.Update,
		"delete": c.Endpoints.Delete,
		"upload": c.Endpoints.Upload,
	}
	for name, u := range endpoints {
		if u == "" {
			return fmt.Errorf("%w: %s", ErrMissingEndpoint, name)
		}
	}

	if c.MaxFileMB <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxFileMB, c.MaxFileMB)
	}
	if c.MaxImagePX <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxImagePX, c.MaxImagePX)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidJPEGQuality, c.JPEGQuality)
	}

	return nil
}

// ReadTimeout returns the list/get bound as a duration.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the create/update/delete bound as a duration.
func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// UploadTimeout returns the media upload bound as a duration.
func (c Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutSeconds) * time.Second
}
