package sidecar

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azure06/clipsx/internal/types"
)

func TestWriteAndRead_Image(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	content := &types.ClipboardContent{Kind: types.KindImage, ImageBytes: []byte{0x89, 0x50, 0x4E, 0x47}, ImageFormat: types.ImagePNG}
	paths, err := store.Write("clip1", content)
	require.NoError(t, err)
	require.FileExists(t, paths.ImagePath)
	require.Contains(t, paths.ImagePath, "clip1.png")

	image, _, _, _, err := store.Read(paths)
	require.NoError(t, err)
	require.Equal(t, content.ImageBytes, image)
}

func TestWrite_OfficeRepresentations(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	content := &types.ClipboardContent{
		Kind: types.KindOffice,
		SVG:  []byte("<svg/>"),
		PDF:  []byte("%PDF-1.4"),
	}
	paths, err := store.Write("clip2", content)
	require.NoError(t, err)
	require.FileExists(t, paths.SVGPath)
	require.FileExists(t, paths.PDFPath)
}

func TestDelete_MissingFileIsNotAnError(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(Paths{ImagePath: "/nonexistent/path.png"})
	require.NoError(t, err)
}

func TestDelete_RemovesWrittenFiles(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	content := &types.ClipboardContent{Kind: types.KindImage, ImageBytes: []byte{1, 2, 3}, ImageFormat: types.ImagePNG}
	paths, err := store.Write("clip3", content)
	require.NoError(t, err)

	require.NoError(t, store.Delete(paths))
	_, err = os.Stat(paths.ImagePath)
	require.True(t, os.IsNotExist(err))
}
