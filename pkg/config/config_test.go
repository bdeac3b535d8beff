package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, BackendMemory, cfg.StoreBackend)
	require.True(t, cfg.SeedFixtures)
	require.Equal(t, 30, cfg.ExpiringWindowDays)
	require.Equal(t, 15*time.Second, cfg.DashboardCacheTTL)
	require.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "GORM")
	t.Setenv("GORM_DRIVER", "mysql")
	t.Setenv("SEED_FIXTURES", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, BackendGorm, cfg.StoreBackend)
	require.Equal(t, "mysql", cfg.GormDriver)
	require.False(t, cfg.SeedFixtures)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_URL=redis://cache:6379/2\n"), 0o600))
	t.Setenv("REDIS_URL", "")
	os.Unsetenv("REDIS_URL")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SERVER_PORT", "eighty")
	_, err := Load()
	require.ErrorContains(t, err, "SERVER_PORT")

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STORE_BACKEND", "mongo")
	_, err = Load()
	require.ErrorContains(t, err, "STORE_BACKEND")
}
