package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "post-studio-data", cfg.SlotKey)
	assert.Equal(t, "ru-RU", cfg.Locale)
	assert.Equal(t, 24*time.Hour, cfg.ReceiptTTL)
	assert.Empty(t, cfg.PublishSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STUDIO_STORAGE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("STUDIO_RECEIPT_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.ReceiptTTL)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STUDIO_STORAGE", "floppy")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := Database{User: "studio", Password: "p@ss", Host: "db", Port: "5432", Name: "posts", SSLMode: "disable"}
	assert.Equal(t, "postgres://studio:p%40ss@db:5432/posts?sslmode=disable", d.DSN())

	d.URL = "postgres://elsewhere/db"
	assert.Equal(t, "postgres://elsewhere/db", d.DSN())
}
