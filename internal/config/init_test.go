package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blogbuilder.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Site, cfg.Site)
	assert.Equal(t, Default().Paths, cfg.Paths)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep: me\n"), 0o600))

	require.Error(t, Init(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep: me\n", string(data))

	require.NoError(t, Init(path, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url:")
}
