package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_PREFIX", "app/")
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "app/", cfg.MinIO.Prefix)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORAGE_DRIVER", "STORAGE_ROOT", "PORT", "LOG_LEVEL", "APP_TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DriverLocal, cfg.Storage.Driver)
	assert.Equal(t, "storage/app", cfg.Storage.Root)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "UTC", cfg.Log.Timezone)
}

func TestLogConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, LogConfig{Timezone: "UTC"}.Location())
	assert.Equal(t, time.UTC, LogConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, time.Local, LogConfig{Timezone: "Local"}.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
