package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CATALOG_SOURCE", "testdata/jobs.csv")
	t.Setenv("SCENE_SESSION_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "ratio", cfg.Recommend.Mode)
	assert.InDelta(t, 0.6, cfg.Recommend.Threshold, 1e-9)
	assert.Equal(t, 1, cfg.Recommend.MinSelected)
	assert.Equal(t, 5, cfg.Recommend.MaxSelected)
	assert.Equal(t, 60, cfg.Scene.TickRate)
	assert.Equal(t, "Other", cfg.Catalog.CatchAllIndustry)
	assert.Zero(t, cfg.Catalog.MaxBodyBytes)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("SCENE_SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "CATALOG_SOURCE")
	assert.Contains(t, err.Error(), "SCENE_SESSION_SECRET")
}

func TestLoad_InvalidNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("RECOMMEND_THRESHOLD", "abc")
	t.Setenv("SCENE_IDLE_TIMEOUT", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidEnv))
	assert.Contains(t, err.Error(), "RECOMMEND_THRESHOLD")
	assert.Contains(t, err.Error(), "SCENE_IDLE_TIMEOUT")
}

func TestLoad_CatalogMaxBodyBytes(t *testing.T) {
	setRequired(t)
	t.Setenv("CATALOG_MAX_BODY_BYTES", "52428800")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50*1024*1024, cfg.Catalog.MaxBodyBytes)

	t.Setenv("CATALOG_MAX_BODY_BYTES", "-1")
	_, err = Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidEnv))
	assert.Contains(t, err.Error(), "CATALOG_MAX_BODY_BYTES")
}

func TestLoad_SelectionBounds(t *testing.T) {
	setRequired(t)
	t.Setenv("RECOMMEND_MIN_SELECTED", "4")
	t.Setenv("RECOMMEND_MAX_SELECTED", "3")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidEnv))
}

func TestLoad_AllowedOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("WS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Auth.AllowedOrigins)
}

func TestLoadDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	_, err := LoadDatabase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_POOL_MAX_CONNS", "8")
	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, int32(8), cfg.PoolMaxConns)
}
