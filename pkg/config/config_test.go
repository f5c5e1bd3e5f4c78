package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
rarity = "0.2:1"
include = ["Credentials", "Username"]
exclude = ["AWS"]
key = "rarity"
reverse = true
format = "json"
max_blob_size = 1048576
signature_timeout = "2s"

[boundaryless]
rarity = "0.5:1"
exclude = ["Phone"]
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "0.2:1", cfg.Rarity)
	assert.Equal(t, []string{"Credentials", "Username"}, cfg.Include)
	assert.Equal(t, []string{"AWS"}, cfg.Exclude)
	assert.Equal(t, "0.5:1", cfg.Boundaryless.Rarity)
	assert.Equal(t, []string{"Phone"}, cfg.Boundaryless.Exclude)
	assert.Empty(t, cfg.Boundaryless.Include)
	assert.Equal(t, "rarity", cfg.Key)
	assert.True(t, cfg.Reverse)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 1048576, cfg.MaxBlobSize)
	assert.Equal(t, 2*time.Second, cfg.SignatureTimeout)

	assert.True(t, cfg.Set("rarity"))
	assert.True(t, cfg.Set("boundaryless.rarity"))
	assert.False(t, cfg.Set("boundaryless.include"))
	assert.False(t, cfg.Set("signatures"))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("rarity = "))
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "what.toml")
	require.NoError(t, os.WriteFile(path, []byte(`format = "sarif"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sarif", cfg.Format)
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.toml")
	require.NoError(t, os.WriteFile(path, []byte(`key = "name"`), 0o644))
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "name", cfg.Key)
}

func TestLoad_Unset(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Set("rarity"))
	assert.Empty(t, cfg.Format)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "reading config")
}
