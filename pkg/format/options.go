package format

import "github.com/azure06/clipsx/internal/types"

// Options controls how FormatClip and FormatClipLine render a clip.
type Options struct {
	UseColors    bool
	MaxWidth     int  // max content width, 0 = no limit
	MaxLines     int  // max content lines, 0 = no limit
	ShowMetadata bool // show hash, timestamps, app name
	Compact      bool // single-line format
}

// DefaultOptions returns the detail-view defaults used by `clip get`.
func DefaultOptions() Options {
	return Options{
		UseColors:    true,
		MaxWidth:     80,
		MaxLines:     10,
		ShowMetadata: true,
		Compact:      false,
	}
}

// CompactOptions returns the one-line-per-clip defaults used by
// `history` and `search`.
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.Compact = true
	opts.ShowMetadata = false
	opts.MaxLines = 1
	return opts
}

// KindColors maps a clip's stored content kind to the color its header
// and compact-view marker are rendered in.
var KindColors = map[types.ContentKind]string{
	types.KindText:   Cyan,
	types.KindHTML:   Green,
	types.KindRTF:    Gray,
	types.KindImage:  Magenta,
	types.KindFiles:  Yellow,
	types.KindOffice: BrightYellow,
}
