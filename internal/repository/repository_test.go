package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azure06/clipsx/internal/types"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clips.db")
	repo, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleClip(id, hash, text string) *types.Clip {
	return &types.Clip{
		ID:          id,
		ContentType: types.KindText,
		ContentText: text,
		CreatedAt:   1,
		UpdatedAt:   1,
		ContentHash: hash,
		Metadata:    map[string]string{},
	}
}

func TestEscapeFTSQuery(t *testing.T) {
	cases := map[string]string{
		"cli":             `"cli"*`,
		"hello world":     `"hello"* AND "world"*`,
		`say "hello"`:     `"say"* AND """hello"""*`,
		"user@example.com": `"user@example.com"*`,
		"(foo AND bar)":   `"(foo"* AND "AND"* AND "bar)"*`,
		"":                `""`,
		"   ":             `""`,
	}
	for in, want := range cases {
		require.Equal(t, want, EscapeFTSQuery(in), "input %q", in)
	}
}

func TestInsert_DuplicateHashFails(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "hello")))
	err := repo.Insert(sampleClip("2", "h1", "hello again"))
	require.ErrorIs(t, err, ErrDuplicateHash)
}

func TestFindByHash_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "hello")))

	found, err := repo.FindByHash("h1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "hello", found.ContentText)

	missing, err := repo.FindByHash("nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGetClipsByIDs_PreservesOrder(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("a", "ha", "A")))
	require.NoError(t, repo.Insert(sampleClip("b", "hb", "B")))
	require.NoError(t, repo.Insert(sampleClip("c", "hc", "C")))

	clips, err := repo.GetClipsByIDs([]string{"c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, clips, 3)
	require.Equal(t, []string{"c", "a", "b"}, []string{clips[0].ID, clips[1].ID, clips[2].ID})
}

func TestTogglePinAndFavorite(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "hello")))

	pinned, err := repo.TogglePin("1")
	require.NoError(t, err)
	require.True(t, pinned)

	fav, err := repo.ToggleFavorite("1")
	require.NoError(t, err)
	require.True(t, fav)

	fav, err = repo.ToggleFavorite("1")
	require.NoError(t, err)
	require.False(t, fav)
}

func TestDelete_CascadesEmbedding(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "hello")))
	require.NoError(t, repo.CreateEmbedding("1", []byte{1, 2, 3, 4}, "all-MiniLM-L6-v2", 1, 1))

	require.NoError(t, repo.Delete("1"))

	rows, err := repo.GetEmbeddingsWithFilters(nil, false, false)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSearch_FTSMatchesQueryTerm(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "a banana split")))
	require.NoError(t, repo.Insert(sampleClip("2", "h2", "banana bread recipe")))
	require.NoError(t, repo.Insert(sampleClip("3", "h3", "nothing related")))

	results, err := repo.Search("banana", nil, false, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearch_EmptyQueryFallsBackToUpdatedAtOrder(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(&types.Clip{ID: "1", ContentType: types.KindText, ContentText: "x", CreatedAt: 1, UpdatedAt: 1, ContentHash: "h1", Metadata: map[string]string{}}))
	require.NoError(t, repo.Insert(&types.Clip{ID: "2", ContentType: types.KindText, ContentText: "y", CreatedAt: 2, UpdatedAt: 2, ContentHash: "h2", Metadata: map[string]string{}}))

	results, err := repo.Search("", nil, false, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "2", results[0].ID)
}

func TestCreateEmbedding_Upserts(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "hello")))
	require.NoError(t, repo.CreateEmbedding("1", []byte{1, 2}, "model-a", 2, 1))
	require.NoError(t, repo.CreateEmbedding("1", []byte{3, 4}, "model-b", 2, 2))

	rows, err := repo.GetEmbeddingsWithFilters(nil, false, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []byte{3, 4}, rows[0].Vector)
}

func TestTagClipAndListByTag(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Insert(sampleClip("1", "h1", "hello")))
	require.NoError(t, repo.CreateTag(&types.Tag{ID: "t1", Name: "work"}))
	require.NoError(t, repo.TagClip("1", "t1"))

	clips, err := repo.GetClipsByTag("t1")
	require.NoError(t, err)
	require.Len(t, clips, 1)
	require.Equal(t, "1", clips[0].ID)

	tags, err := repo.GetTagsForClip("1")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "work", tags[0].Name)
}
