package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbc7/nlw-habits-server/backend/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "habits", cfg.DBName)
	assert.Equal(t, "3333", cfg.ServerPort)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
}

func TestLocation(t *testing.T) {
	cfg := &config.Config{Timezone: "America/Sao_Paulo"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())

	cfg = &config.Config{Timezone: "Not/AZone"}
	_, err = cfg.Location()
	assert.Error(t, err)

	cfg = &config.Config{Timezone: "UTC"}
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
