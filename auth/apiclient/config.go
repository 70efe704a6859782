package apiclient

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config defines runtime configuration for the API client.
type Config struct {
	// BaseURL is the portal API root, e.g. "http://localhost:5000".
	BaseURL string

	// Timeout bounds a single attempt of a regular request.
	Timeout time.Duration

	// UploadTimeout bounds a single attempt of a multipart upload. A
	// retried upload doubles it again.
	UploadTimeout time.Duration

	// RefreshPath and LoginPath locate the auth endpoints under BaseURL.
	RefreshPath string
	LoginPath   string

	// MaxBodyBytes caps how much of a response body is read into memory.
	MaxBodyBytes int64

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// DefaultConfig returns defaults suitable for development. The upload
// timeout is double the baseline.
func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Second,
		UploadTimeout: 30 * time.Second,
		RefreshPath:   "/auth/refresh",
		LoginPath:     "/auth/login",
		MaxBodyBytes:  8 << 20,
		UserAgent:     "internhub-client/1.0",
	}
}

// LoadConfigFromEnv loads client configuration from environment variables.
//
// Required:
//   - INTERNHUB_API_BASE_URL
//
// Optional (durations must be valid Go duration strings):
//   - INTERNHUB_API_TIMEOUT
//   - INTERNHUB_API_UPLOAD_TIMEOUT
//   - INTERNHUB_API_REFRESH_PATH
//   - INTERNHUB_API_LOGIN_PATH
//   - INTERNHUB_API_MAX_BODY_BYTES
//   - INTERNHUB_API_USER_AGENT
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.BaseURL = strings.TrimSpace(os.Getenv("INTERNHUB_API_BASE_URL"))

	if v := os.Getenv("INTERNHUB_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.Timeout = d
	}

	if v := os.Getenv("INTERNHUB_API_UPLOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.UploadTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("INTERNHUB_API_REFRESH_PATH")); v != "" {
		cfg.RefreshPath = v
	}

	if v := strings.TrimSpace(os.Getenv("INTERNHUB_API_LOGIN_PATH")); v != "" {
		cfg.LoginPath = v
	}

	if v := os.Getenv("INTERNHUB_API_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, ErrConfig
		}
		cfg.MaxBodyBytes = n
	}

	if v := strings.TrimSpace(os.Getenv("INTERNHUB_API_USER_AGENT")); v != "" {
		cfg.UserAgent = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil {
		return ErrConfig
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrConfig
	}
	if strings.TrimSpace(u.Host) == "" {
		return ErrConfig
	}
	if c.Timeout <= 0 || c.UploadTimeout <= 0 {
		return ErrConfig
	}
	// Uploads must never get a tighter envelope than regular requests.
	if c.UploadTimeout < c.Timeout {
		return ErrConfig
	}
	if c.MaxBodyBytes <= 0 {
		return ErrConfig
	}
	if !strings.HasPrefix(c.RefreshPath, "/") || !strings.HasPrefix(c.LoginPath, "/") {
		return ErrConfig
	}
	return nil
}
