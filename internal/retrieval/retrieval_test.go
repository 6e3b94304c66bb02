package retrieval

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/azure06/clipsx/internal/monitor"
	"github.com/azure06/clipsx/internal/platform"
	"github.com/azure06/clipsx/internal/repository"
	"github.com/azure06/clipsx/internal/semantic"
	"github.com/azure06/clipsx/internal/sidecar"
	"github.com/azure06/clipsx/internal/types"
)

type fakeAdapter struct {
	written *types.ClipboardContent
}

func (f *fakeAdapter) Read() (*types.ClipboardContent, error) { return nil, nil }
func (f *fakeAdapter) Write(c *types.ClipboardContent) error  { f.written = c; return nil }
func (f *fakeAdapter) ChangeCounter() int64                   { return -1 }
func (f *fakeAdapter) ActiveAppName() string                  { return "" }

var _ platform.Adapter = (*fakeAdapter)(nil)

type fakeEmbedder struct {
	ready  bool
	vector []float32
}

func (f *fakeEmbedder) IsReady() bool { return f.ready }
func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, nil
}

func newTestRepo(t *testing.T) *repository.Repository {
	dir := t.TempDir()
	repo, err := repository.Open(filepath.Join(dir, "clips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insertClip(t *testing.T, repo *repository.Repository, id, text, hash string) {
	t.Helper()
	now := time.Now().Unix()
	require.NoError(t, repo.Insert(&types.Clip{
		ID:          id,
		ContentType: types.KindText,
		ContentText: text,
		ContentHash: hash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

func TestSearch_FallsBackToFTSWhenNoSemanticEngine(t *testing.T) {
	repo := newTestRepo(t)
	insertClip(t, repo, "0000000000000000001", "hello from go", "h1")

	e := New(repo, nil)
	results, err := e.Search(context.Background(), Options{Query: "hello", UseSemantic: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearch_SemanticPathScoresAndThresholds(t *testing.T) {
	repo := newTestRepo(t)
	insertClip(t, repo, "0000000000000000001", "near match", "h1")
	insertClip(t, repo, "0000000000000000002", "far match", "h2")

	now := time.Now().Unix()
	require.NoError(t, repo.CreateEmbedding("0000000000000000001", semantic.VectorToBytes([]float32{1, 0, 0}), "m", 3, now))
	require.NoError(t, repo.CreateEmbedding("0000000000000000002", semantic.VectorToBytes([]float32{0, 1, 0}), "m", 3, now))

	embedder := &fakeEmbedder{ready: true, vector: []float32{1, 0, 0}}
	e := New(repo, embedder)

	results, err := e.Search(context.Background(), Options{Query: "q", UseSemantic: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "0000000000000000001", results[0].ID)
	require.NotNil(t, results[0].Score)
	require.InDelta(t, float32(1.0), *results[0].Score, 0.001)
}

func TestSearch_SemanticPaginationPreservesRankOrder(t *testing.T) {
	repo := newTestRepo(t)
	insertClip(t, repo, "0000000000000000001", "a", "h1")
	insertClip(t, repo, "0000000000000000002", "b", "h2")
	insertClip(t, repo, "0000000000000000003", "c", "h3")

	now := time.Now().Unix()
	require.NoError(t, repo.CreateEmbedding("0000000000000000001", semantic.VectorToBytes([]float32{0.9, 0.1, 0}), "m", 3, now))
	require.NoError(t, repo.CreateEmbedding("0000000000000000002", semantic.VectorToBytes([]float32{1, 0, 0}), "m", 3, now))
	require.NoError(t, repo.CreateEmbedding("0000000000000000003", semantic.VectorToBytes([]float32{0.5, 0.5, 0}), "m", 3, now))

	embedder := &fakeEmbedder{ready: true, vector: []float32{1, 0, 0}}
	e := New(repo, embedder)

	results, err := e.Search(context.Background(), Options{Query: "q", UseSemantic: true, Threshold: 0, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "0000000000000000001", results[0].ID)
}

func TestRestore_WritesAdapterAndNotifiesMonitor(t *testing.T) {
	repo := newTestRepo(t)
	insertClip(t, repo, "0000000000000000001", "restore me", "h1")

	store, err := sidecar.New(t.TempDir())
	require.NoError(t, err)

	adapter := &fakeAdapter{}
	mon := monitor.New(adapter, false)

	require.NoError(t, Restore(repo, store, adapter, mon, "0000000000000000001"))
	require.NotNil(t, adapter.written)
	require.Equal(t, "restore me", adapter.written.Text)

	clip, err := repo.GetByID("0000000000000000001")
	require.NoError(t, err)
	require.Equal(t, int64(1), clip.AccessCount)
}

func TestRestore_UnknownClipErrors(t *testing.T) {
	repo := newTestRepo(t)
	store, err := sidecar.New(t.TempDir())
	require.NoError(t, err)
	adapter := &fakeAdapter{}
	mon := monitor.New(adapter, false)

	err = Restore(repo, store, adapter, mon, "missing")
	require.Error(t, err)
}
