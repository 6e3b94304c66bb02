package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/azure06/clipsx/internal/types"
)

// FormatClip renders one clip as a multi-line, optionally colorized
// detail view, the way `clipsx clip get` presents it.
func FormatClip(clip *types.Clip, opts Options) string {
	if clip == nil {
		return ColorizeIf("(not found)", Gray, opts.UseColors)
	}

	if opts.Compact {
		return FormatClipLine(clip, opts)
	}

	header := formatHeader(clip, opts)
	var parts []string
	parts = append(parts, header)

	if opts.ShowMetadata {
		parts = append(parts, formatMetadata(clip, opts))
	}

	body := contentPreview(clip, opts.MaxWidth, opts.MaxLines)
	if body != "" {
		parts = append(parts, CreateBox("content", body, opts))
	}
	return strings.Join(parts, "\n")
}

// FormatClipLine renders one clip as a single colorized line, the way
// `history` and `search` list results.
func FormatClipLine(clip *types.Clip, opts Options) string {
	marker := " "
	switch {
	case clip.IsPinned && clip.IsFavorite:
		marker = "*#"
	case clip.IsPinned:
		marker = "#"
	case clip.IsFavorite:
		marker = "*"
	}

	kind := ColorizeIf(string(clip.ContentType), kindColor(clip.ContentType), opts.UseColors)
	preview := contentPreview(clip, 80, 1)
	preview = strings.ReplaceAll(preview, "\n", " ")

	line := fmt.Sprintf("%-2s %s  %-6s  %s", marker, clip.ID, kind, preview)
	if clip.Score != nil {
		line += DimIf(fmt.Sprintf("  (%.3f)", *clip.Score), opts.UseColors)
	}
	return line
}

func formatHeader(clip *types.Clip, opts Options) string {
	label := fmt.Sprintf("%s  [%s/%s]", clip.ID, clip.ContentType, clip.DetectedType)
	return BoldIf(ColorizeIf(label, kindColor(clip.ContentType), opts.UseColors), opts.UseColors)
}

func formatMetadata(clip *types.Clip, opts Options) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("app:     %s", clip.AppName))
	lines = append(lines, fmt.Sprintf("created: %s", FormatRelativeTime(time.Unix(clip.CreatedAt, 0))))
	lines = append(lines, fmt.Sprintf("hash:    %s", clip.ContentHash))
	if clip.IsPinned {
		lines = append(lines, "pinned:  true")
	}
	if clip.IsFavorite {
		lines = append(lines, "favorite: true")
	}
	return DimIf(strings.Join(lines, "\n"), opts.UseColors)
}

// contentPreview picks the textual representation worth showing for the
// clip's kind; binary kinds (image/office) show their sidecar path
// instead of attempting to render bytes.
func contentPreview(clip *types.Clip, maxWidth, maxLines int) string {
	var text string
	switch clip.ContentType {
	case types.KindText:
		text = clip.ContentText
	case types.KindHTML:
		text = clip.ContentText
		if text == "" {
			text = clip.ContentHTML
		}
	case types.KindRTF:
		text = clip.ContentText
	case types.KindImage:
		return fmt.Sprintf("<image: %s>", clip.ImagePath)
	case types.KindFiles:
		return strings.Join(clip.FilePaths, "\n")
	case types.KindOffice:
		return fmt.Sprintf("<%s attachment: %s>", clip.AttachmentType, clip.AttachmentPath)
	default:
		text = clip.ContentText
	}

	if maxLines > 0 {
		text = TruncateLines(text, maxLines)
	}
	if maxWidth > 0 {
		text = TruncateText(text, maxWidth)
	}
	return text
}

func kindColor(kind types.ContentKind) string {
	if c, ok := KindColors[kind]; ok {
		return c
	}
	return Gray
}
