package semantic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveModelName_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, defaultModel, resolveModelName("not-a-real-model"))
	assert.Equal(t, "paraphrase-multilingual-MiniLM-L12-v2", resolveModelName("paraphrase-multilingual-MiniLM-L12-v2"))
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, int64(0), dirSize(dir))

	require := assert.New(t)
	require.NoError(os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100), 0o644))
	require.NoError(os.WriteFile(filepath.Join(dir, "b.bin"), make([]byte, 50), 0o644))

	assert.Equal(t, int64(150), dirSize(dir))
}

func TestMeanPool_AveragesTokens(t *testing.T) {
	hidden := []float32{1, 1, 3, 3}
	got := meanPool(hidden, 2, 2)
	assert.Equal(t, []float32{2, 2}, got)
}

func TestEngine_NotReadyUntilInit(t *testing.T) {
	e := NewEngine(t.TempDir(), nil)
	assert.False(t, e.IsReady())
	_, ok := e.GetModelInfo()
	assert.False(t, ok)
}
