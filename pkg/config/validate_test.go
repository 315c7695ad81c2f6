package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-enricher/pkg/utils"
)

func TestValidate_AppliesDefaults(t *testing.T) {
	cfg := &AppConfig{InputDir: "./input"}

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.NotEmpty(t, warnings) // output_dir and log_dir defaults warned about

	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "./logs", cfg.LogDir)
	assert.Equal(t, DefaultURLColumn, cfg.URLColumn)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 6*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 1*time.Second, cfg.RetryDelay)
	assert.Equal(t, 10, cfg.ProgressLogEvery)
}

func TestValidate_ExplicitValuesKept(t *testing.T) {
	cfg := &AppConfig{
		InputDir:         "./in",
		OutputDir:        "./out",
		LogDir:           "./runlogs",
		URLColumn:        "article_url",
		ProbeTimeout:     2 * time.Second,
		FetchTimeout:     10 * time.Second,
		MaxAttempts:      5,
		RetryDelay:       250 * time.Millisecond,
		ProgressLogEvery: 50,
	}

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "article_url", cfg.URLColumn)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
}

func TestValidate_MissingInputDir(t *testing.T) {
	cfg := &AppConfig{}

	_, err := cfg.Validate()

	assert.ErrorIs(t, err, utils.ErrConfigValidation)
}

func TestValidate_NegativeMaxAttempts(t *testing.T) {
	cfg := &AppConfig{InputDir: "./in", MaxAttempts: -1}

	_, err := cfg.Validate()

	assert.ErrorIs(t, err, utils.ErrConfigValidation)
}

func TestValidate_NegativeDurationsRecovered(t *testing.T) {
	cfg := &AppConfig{
		InputDir:     "./in",
		ProbeTimeout: -1 * time.Second,
		FetchTimeout: -1 * time.Second,
		RetryDelay:   -1 * time.Second,
	}

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 6*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1*time.Second, cfg.RetryDelay)
}
