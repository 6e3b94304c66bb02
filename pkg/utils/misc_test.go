package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/clipsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "clipsx"), got)
}

func TestExpandPath_Empty(t *testing.T) {
	got, err := ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnsureDir_CreatesNestedPath(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c")

	require.NoError(t, EnsureDir(target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
