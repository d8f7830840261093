package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFile_JSON(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
		"http_addr": "www.example:9000",
		"api_prefix": "",
		"storage": "memory",
		"database_dsn": "pg",
		"redis_addr": "r:1",
		"redis_password": "pw",
		"redis_db": 0,
		"secret_key": "my_secret_key",
		"token_ttl": "2h",
		"argon2": {"memory_kib": 4096, "iterations": 2, "parallelism": 1, "key_length": 64},
		"log_format": "text",
		"log_level": "warn",
		"shutdown_timeout": 3000000000
	}`)
	withArgs(t, "-config", path)

	var cfg Config
	cfg.LoadDefaults()
	cfg.RedisDB = 5
	require.NoError(t, parseFile(&cfg))

	assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.APIPrefix, "an explicit empty prefix mounts routes at the root")
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "pg", cfg.DatabaseDSN)
	assert.Equal(t, "r:1", cfg.RedisAddr)
	assert.Equal(t, "pw", cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "my_secret_key", cfg.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, uint32(4096), cfg.Argon2.Memory)
	assert.Equal(t, uint32(2), cfg.Argon2.Iterations)
	assert.Equal(t, uint8(1), cfg.Argon2.Parallelism)
	assert.Equal(t, uint32(64), cfg.Argon2.KeyLength)
	assert.Equal(t, uint32(16), cfg.Argon2.SaltLength)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestParseFile_PartialYAMLKeepsDefaults(t *testing.T) {
	path := writeTemp(t, "cfg.yml", "http_addr: \":9999\"\n")
	withArgs(t, "-c", path)

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseFile(&cfg))

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestParseFile_NoFlagNoChanges(t *testing.T) {
	withArgs(t)

	cfg := Config{HTTPAddr: "defaults:1234", SecretKey: "key"}
	require.NoError(t, parseFile(&cfg))
	assert.Equal(t, Config{HTTPAddr: "defaults:1234", SecretKey: "key"}, cfg)
}

func TestParseFile_InvalidJSON(t *testing.T) {
	path := writeTemp(t, "bad.json", `{ this is not valid json`)
	withArgs(t, "-config", path)

	var cfg Config
	assert.ErrorContains(t, parseFile(&cfg), "parse config")
}
