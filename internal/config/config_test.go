package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "all-MiniLM-L6-v2", s.SemanticModel)
	require.FileExists(t, path)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := DefaultSettings()
	s.DeviceName = "my-laptop"
	s.SemanticSearchEnabled = true
	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "my-laptop", loaded.DeviceName)
	require.True(t, loaded.SemanticSearchEnabled)
}

func TestSelfHeal_ClearsFlagWhenModelMissing(t *testing.T) {
	s := DefaultSettings()
	s.SemanticSearchEnabled = true
	s.SemanticModel = "all-MiniLM-L6-v2"

	changed := s.SelfHeal("/cache", func(cache, name string) bool { return false })
	require.True(t, changed)
	require.False(t, s.SemanticSearchEnabled)
}

func TestSelfHeal_NoopWhenModelPresent(t *testing.T) {
	s := DefaultSettings()
	s.SemanticSearchEnabled = true

	changed := s.SelfHeal("/cache", func(cache, name string) bool { return true })
	require.False(t, changed)
	require.True(t, s.SemanticSearchEnabled)
}
