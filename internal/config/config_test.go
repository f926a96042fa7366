package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "ch-insight.db", cfg.SQLitePath)
	assert.Equal(t, "test-secret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 7, cfg.AnalysisWindowDays)
	assert.Equal(t, time.Minute, cfg.BucketWidth)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "k")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ANALYSIS_WINDOW_DAYS", "3")
	t.Setenv("BUCKET_WIDTH", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 3, cfg.AnalysisWindowDays)
	assert.Equal(t, 5*time.Minute, cfg.BucketWidth)
}
