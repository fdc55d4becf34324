package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.DatabaseURL)
	assert.Equal(t, "memory", cfg.SessionURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "", cfg.StorageURL)
	assert.Equal(t, "/tmp/files_manager", cfg.FolderPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("STORAGE_URL", "memory://")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "memory://", cfg.StorageURL)
}

func TestValidate(t *testing.T) {
	valid := ServerConfig{
		Port:        "8080",
		DatabaseURL: "memory",
		SessionURL:  "memory",
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{"defaults", func(c *ServerConfig) {}, false},
		{"postgres url", func(c *ServerConfig) { c.DatabaseURL = "postgres://localhost/filevault" }, false},
		{"postgresql url", func(c *ServerConfig) { c.DatabaseURL = "postgresql://localhost/filevault" }, false},
		{"redis url", func(c *ServerConfig) { c.SessionURL = "redis://localhost:6379/0" }, false},
		{"file storage", func(c *ServerConfig) { c.StorageURL = "file:///var/blobs" }, false},
		{"s3 storage", func(c *ServerConfig) { c.StorageURL = "s3://bucket" }, false},
		{"missing port", func(c *ServerConfig) { c.Port = "" }, true},
		{"bad database url", func(c *ServerConfig) { c.DatabaseURL = "mysql://localhost" }, true},
		{"bad session url", func(c *ServerConfig) { c.SessionURL = "memcached://localhost" }, true},
		{"bad storage url", func(c *ServerConfig) { c.StorageURL = "ftp://host/blobs" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildServiceMemory(t *testing.T) {
	cfg := ServerConfig{
		Port:        "8080",
		DatabaseURL: "memory",
		SessionURL:  "memory",
		StorageURL:  "memory://",
	}

	service, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, service)
}

func TestBuildBlobStoreFilesystem(t *testing.T) {
	cfg := ServerConfig{StorageURL: "file://" + t.TempDir()}

	blobs, err := cfg.buildBlobStore(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, blobs)

	cfg = ServerConfig{StorageURL: "file://"}
	_, err = cfg.buildBlobStore(context.Background())
	assert.Error(t, err)
}

func TestBuildBlobStoreDefaultFolderPath(t *testing.T) {
	cfg := ServerConfig{FolderPath: t.TempDir()}

	blobs, err := cfg.buildBlobStore(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, blobs)
}
