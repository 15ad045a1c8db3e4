package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
name = "assinatura-digital-v2"
origin = "https://assinatura.example.com"
manifest = ["/", "/app.js"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "assinatura-digital-v2", cfg.Name)
	assert.Equal(t, "https://assinatura.example.com", cfg.Origin)
	assert.Equal(t, []string{"/", "/app.js"}, cfg.Manifest)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `name = "assinatura-digital-v3"`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, "assinatura-digital-v3", cfg.Name)
	assert.Equal(t, def.Origin, cfg.Origin)
	assert.Equal(t, def.Manifest, cfg.Manifest)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `name = `))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `name = ""`))
	assert.ErrorContains(t, err, "cache name is required")

	_, err = LoadConfig(writeConfig(t, `origin = "/relative"`))
	assert.ErrorContains(t, err, "absolute URL")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Contains(t, cfg.Manifest, "/")
	assert.Contains(t, cfg.Manifest, "/index.html")
}
