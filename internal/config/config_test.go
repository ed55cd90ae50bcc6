package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/docver/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory with HOME pointed at
// another, so neither local nor global config leaks in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DOCVER_ADDR", "")
	t.Setenv("DOCVER_SERVER", "")
	t.Setenv("DOCVER_REDIS_URL", "")
	return dir
}

func TestDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.ScopeGlobal, cfg.Scope())
	assert.Equal(t, config.DefaultAddr, cfg.Addr())
	assert.Equal(t, int64(config.DefaultMaxUploadMB)<<20, cfg.MaxUploadBytes())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins())
	assert.Equal(t, config.DefaultServer, cfg.ServerURL())
	assert.Empty(t, cfg.RedisURL())
	assert.Equal(t, config.DefaultChannel, cfg.Channel())
}

func TestLocalOverridesGlobal(t *testing.T) {
	inTempDir(t)

	global, err := config.LoadScope(config.ScopeGlobal)
	require.NoError(t, err)
	require.NoError(t, global.Set("server.addr", ":7000"))
	require.NoError(t, global.Save())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr())

	local, err := config.LoadScope(config.ScopeLocal)
	require.NoError(t, err)
	require.NoError(t, local.Set("server.addr", ":8000"))
	require.NoError(t, local.Save())

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.ScopeLocal, cfg.Scope())
	assert.Equal(t, ":8000", cfg.Addr())
}

func TestEnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("DOCVER_ADDR", ":9999")
	t.Setenv("DOCVER_SERVER", "http://docs.internal:5000")
	t.Setenv("DOCVER_REDIS_URL", "redis://cache:6379/0")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr())
	assert.Equal(t, "http://docs.internal:5000", cfg.ServerURL())
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL())
}

func TestSetValidation(t *testing.T) {
	inTempDir(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.Set("server.max_upload_mb", "zero"), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("server.max_upload_mb", "0"), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("client.server", "ftp://x"), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("notify.redis_url", "localhost:6379"), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("notify.channel", ""), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("no.such.key", "x"), config.ErrUnknownKey)

	assert.False(t, cfg.IsSet("server.max_upload_mb"), "rejected value not kept")
	require.NoError(t, cfg.Set("server.cors_origins", "http://a.test, http://b.test"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestMalformedFile(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.MkdirAll(config.Dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(config.Dir, "config.yaml"), []byte("server: [oops"), 0644))

	_, err := config.Load()
	assert.ErrorContains(t, err, "malformed config file")
}

func TestInvalidFile(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.MkdirAll(config.Dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(config.Dir, "config.yaml"),
		[]byte("server:\n  max_upload_mb: 99999\n"), 0644))

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestAllAndIsSet(t *testing.T) {
	inTempDir(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	all := cfg.All()
	assert.Len(t, all, len(config.ValidKeys()))
	assert.False(t, cfg.IsSet("author.name"))

	require.NoError(t, cfg.Set("author.name", "Sam"))
	assert.True(t, cfg.IsSet("author.name"))
	v, err := cfg.Get("author.name")
	require.NoError(t, err)
	assert.Equal(t, "Sam", v)
}
