package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azure06/clipsx/internal/types"
)

func textClip() *types.Clip {
	return &types.Clip{
		ID:           "0000000000000000001",
		ContentType:  types.KindText,
		ContentText:  "hello world",
		DetectedType: types.DetectedText,
		AppName:      "Terminal",
		CreatedAt:    1700000000,
	}
}

func TestFormatClip_DetailViewIncludesContentAndHeader(t *testing.T) {
	out := FormatClip(textClip(), Options{UseColors: false, ShowMetadata: true, MaxWidth: 80, MaxLines: 10})
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "0000000000000000001")
}

func TestFormatClip_Nil(t *testing.T) {
	out := FormatClip(nil, DefaultOptions())
	assert.Contains(t, out, "not found")
}

func TestFormatClipLine_MarksPinnedAndFavorite(t *testing.T) {
	clip := textClip()
	clip.IsPinned = true
	clip.IsFavorite = true

	line := FormatClipLine(clip, Options{Compact: true, UseColors: false})
	assert.True(t, strings.HasPrefix(line, "*#"))
}

func TestFormatClipLine_ImageShowsSidecarPath(t *testing.T) {
	clip := textClip()
	clip.ContentType = types.KindImage
	clip.ImagePath = "/data/images/1.png"

	line := FormatClipLine(clip, CompactOptions())
	assert.Contains(t, line, "/data/images/1.png")
}

func TestTruncateText_AddsEllipsis(t *testing.T) {
	assert.Equal(t, "hel...", TruncateText("hello world", 6))
	assert.Equal(t, "hi", TruncateText("hi", 6))
}
