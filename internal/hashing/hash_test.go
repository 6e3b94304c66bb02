package hashing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure06/clipsx/internal/types"
)

func TestContent_TextHTMLRTFCanonicality(t *testing.T) {
	text, err := Content(&types.ClipboardContent{Kind: types.KindText, Text: "hi"})
	require.NoError(t, err)

	html, err := Content(&types.ClipboardContent{Kind: types.KindHTML, Markup: "<b>hi</b>", Plain: "hi"})
	require.NoError(t, err)

	rtf, err := Content(&types.ClipboardContent{Kind: types.KindRTF, Markup: `{\rtf1 hi}`, Plain: "hi"})
	require.NoError(t, err)

	assert.Equal(t, text, html)
	assert.Equal(t, text, rtf)
}

func TestContent_FilesHashesJoinedPaths(t *testing.T) {
	a, err := Content(&types.ClipboardContent{Kind: types.KindFiles, Paths: []string{"/a", "/b"}})
	require.NoError(t, err)
	b, err := Content(&types.ClipboardContent{Kind: types.KindFiles, Paths: []string{"/a", "/b"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Content(&types.ClipboardContent{Kind: types.KindFiles, Paths: []string{"/a/b"}})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImage_MetadataIndependence(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 5, A: 255})
		}
	}

	h1, err := Image(encodePNG(t, img))
	require.NoError(t, err)
	h2, err := Image(encodePNG(t, img))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	other := image.NewRGBA(image.Rect(0, 0, 4, 4))
	h3, err := Image(encodePNG(t, other))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestOffice_PriorityChain(t *testing.T) {
	withText, err := Content(&types.ClipboardContent{
		Kind:          types.KindOffice,
		ExtractedText: "Slide 1",
		PDF:           []byte("pdf-bytes"),
	})
	require.NoError(t, err)

	withoutText, err := Content(&types.ClipboardContent{
		Kind: types.KindOffice,
		PDF:  []byte("pdf-bytes"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, withText, withoutText, "extracted_text must take priority over pdf bytes")
}
