package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qlpt/rental-portal/internal/config"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAMLThenEnvironment(t *testing.T) {
	path := writeFile(t, "config.yaml", `
api_url: http://api.example.test/
store: sqlite
timeout: 3s
allowed_origins: [http://a.test, http://b.test]
`)
	t.Setenv("QLPT_STORE", "memory")
	t.Setenv("QLPT_ACCESS_TTL", "90s")

	c, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://api.example.test", c.GetAPIURL())
	require.Equal(t, config.StoreMemory, c.GetStoreKind())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, 90*time.Second, c.GetDefaultAccessTokenExpiry())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("http://b.test"))
	require.False(t, c.GetAllowedOrigins().IsAllowedOrigin("http://c.test"))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidStoreKind(t *testing.T) {
	path := writeFile(t, "config.yaml", "store: redis\n")
	_, err := config.Load(path)
	require.ErrorContains(t, err, "unknown store")
}

func TestGetPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", config.New().GetPort())

	t.Setenv("PORT", ":7070")
	require.Equal(t, ":7070", config.New().GetPort())
}

func TestGetStorePath_DefaultsByKind(t *testing.T) {
	t.Setenv("QLPT_STORE_PATH", "")
	t.Setenv("QLPT_STORE", "sqlite")
	require.Equal(t, "session.db", filepath.Base(config.New().GetStorePath()))

	t.Setenv("QLPT_STORE", "file")
	require.Equal(t, "session.json", filepath.Base(config.New().GetStorePath()))
}
