package apiclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_MissingBaseURL(t *testing.T) {
	t.Setenv("INTERNHUB_API_BASE_URL", "")
	_, err := LoadConfigFromEnv()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigFromEnv_InvalidTimeout(t *testing.T) {
	t.Setenv("INTERNHUB_API_BASE_URL", "http://localhost:5000")
	t.Setenv("INTERNHUB_API_TIMEOUT", "-5s")
	_, err := LoadConfigFromEnv()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigFromEnv_UploadTighterThanBaseline(t *testing.T) {
	t.Setenv("INTERNHUB_API_BASE_URL", "http://localhost:5000")
	t.Setenv("INTERNHUB_API_TIMEOUT", "20s")
	t.Setenv("INTERNHUB_API_UPLOAD_TIMEOUT", "10s")
	_, err := LoadConfigFromEnv()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigFromEnv_BadScheme(t *testing.T) {
	t.Setenv("INTERNHUB_API_BASE_URL", "ftp://localhost:5000")
	_, err := LoadConfigFromEnv()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	t.Setenv("INTERNHUB_API_BASE_URL", "https://portal.example.edu")
	t.Setenv("INTERNHUB_API_TIMEOUT", "10s")
	t.Setenv("INTERNHUB_API_UPLOAD_TIMEOUT", "40s")
	t.Setenv("INTERNHUB_API_REFRESH_PATH", "/v2/auth/refresh")
	t.Setenv("INTERNHUB_API_LOGIN_PATH", "/v2/auth/login")
	t.Setenv("INTERNHUB_API_MAX_BODY_BYTES", "1048576")
	t.Setenv("INTERNHUB_API_USER_AGENT", "portal-test/0.1")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.edu", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 40*time.Second, cfg.UploadTimeout)
	assert.Equal(t, "/v2/auth/refresh", cfg.RefreshPath)
	assert.Equal(t, "/v2/auth/login", cfg.LoginPath)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.Equal(t, "portal-test/0.1", cfg.UserAgent)
}

func TestDefaultConfig_UploadDoublesBaseline(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2*cfg.Timeout, cfg.UploadTimeout)
}
