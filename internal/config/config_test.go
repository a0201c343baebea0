package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drivefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.Std())
	assert.Equal(t, 30*time.Second, cfg.Cache.StatTTL.Std())
	assert.Equal(t, MaxUploadExpiry, cfg.Presign.UploadExpiry.Std())
	assert.Equal(t, time.Hour, cfg.Presign.DownloadExpiry.Std())
	assert.Equal(t, 100, cfg.Limits.MaxListPages)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
storage:
  endpoint: "minio.internal:9000"
  bucket: "tenants"
cache:
  ttl: 2m
limits:
  max_upload_bytes: 1048576
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "minio.internal:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "tenants", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL.Std())
	assert.Equal(t, int64(1048576), cfg.Limits.MaxUploadBytes)
	// Unspecified fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Cache.StatTTL.Std())
}

func TestLoadClampsUploadExpiry(t *testing.T) {
	path := writeConfig(t, `
presign:
  upload_expiry: 2h
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MaxUploadExpiry, cfg.Presign.UploadExpiry.Std())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty bucket", yaml: "storage:\n  bucket: \"\"\n"},
		{name: "zero upload limit", yaml: "limits:\n  max_upload_bytes: 0\n"},
		{name: "negative ttl", yaml: "cache:\n  ttl: -1s\n"},
		{name: "zero pages", yaml: "limits:\n  max_list_pages: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DRIVEFS_STORAGE_ACCESS_KEY", "env-access")
	t.Setenv("DRIVEFS_STORAGE_SECRET_KEY", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-access", cfg.Storage.AccessKey)
	assert.Equal(t, "env-secret", cfg.Storage.SecretKey)
}
