package types

// ClipboardContent is the richest representation the platform adapter could
// read off the pasteboard in a single call. Exactly one of the typed fields
// is meaningful per Kind; the rest are zero. Restoring a clip builds one of
// these from stored columns and sidecar bytes before handing it to the
// adapter's Write.
type ClipboardContent struct {
	Kind ContentKind

	// Text
	Text string

	// HTML / RTF: markup plus the plain-text projection used for hashing
	// and for content_text.
	Markup string
	Plain  string

	// Image
	ImageBytes  []byte
	ImageFormat ImageFormat

	// Files
	Paths []string

	// Office
	OLEBytes      []byte
	OLEType       string
	SVG           []byte
	PDF           []byte
	PNG           []byte
	ExtractedText string

	// SourceApp is best-effort and only ever set on a freshly read value,
	// never on a value about to be written back.
	SourceApp string
}
