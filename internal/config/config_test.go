package config_test

import (
	"os"
	"testing"

	"github.com/humanid-dev/humanid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Success(t *testing.T) {
	// Given
	require.NoError(t, os.Setenv("DATABASE_URL", "postgres://localhost/test"))
	require.NoError(t, os.Setenv("ID_LENGTH", "30"))
	require.NoError(t, os.Setenv("ID_POLICY", "legacy"))
	require.NoError(t, os.Setenv("ENVIRONMENT", "test"))
	require.NoError(t, os.Setenv("LOG_LEVEL", "debug"))
	defer os.Clearenv()

	// When
	cfg, err := config.Load()

	// Then
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.URL)
	assert.Equal(t, 30, cfg.Issuer.Length)
	assert.Equal(t, "legacy", cfg.Issuer.Policy)
	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_DefaultValues(t *testing.T) {
	// Given
	os.Clearenv()

	// When
	cfg, err := config.Load()

	// Then
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.URL)                      // optional
	assert.Equal(t, 25, cfg.Issuer.Length)                 // default
	assert.Equal(t, "default", cfg.Issuer.Policy)          // default
	assert.Equal(t, "development", cfg.App.Environment)    // default
	assert.Equal(t, "info", cfg.App.LogLevel)              // default
}

func TestLoad_LengthTooSmall(t *testing.T) {
	// Given
	os.Clearenv()
	require.NoError(t, os.Setenv("ID_LENGTH", "3"))
	defer os.Clearenv()

	// When
	cfg, err := config.Load()

	// Then
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "ID_LENGTH")
}

func TestLoad_UnknownPolicy(t *testing.T) {
	// Given
	os.Clearenv()
	require.NoError(t, os.Setenv("ID_POLICY", "nonexistent"))
	defer os.Clearenv()

	// When
	cfg, err := config.Load()

	// Then
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "not found")
}
