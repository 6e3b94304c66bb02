// Package types holds the data model shared across the capture, storage and
// retrieval layers: clip records, embeddings and the in-memory clipboard
// content variants produced by the platform adapter.
package types

import (
	"fmt"
	"time"
)

// ContentKind is the payload shape of a captured clip.
type ContentKind string

const (
	KindText   ContentKind = "text"
	KindHTML   ContentKind = "html"
	KindRTF    ContentKind = "rtf"
	KindImage  ContentKind = "image"
	KindFiles  ContentKind = "files"
	KindOffice ContentKind = "office"
)

// DetectedKind is the result of the content classifier.
type DetectedKind string

const (
	DetectedText      DetectedKind = "text"
	DetectedURL       DetectedKind = "url"
	DetectedEmail     DetectedKind = "email"
	DetectedColor     DetectedKind = "color"
	DetectedCode      DetectedKind = "code"
	DetectedPath      DetectedKind = "path"
	DetectedJSON      DetectedKind = "json"
	DetectedJWT       DetectedKind = "jwt"
	DetectedTimestamp DetectedKind = "timestamp"
	DetectedImage     DetectedKind = "image"
	DetectedFiles     DetectedKind = "files"
	DetectedOffice    DetectedKind = "office"
)

// ImageFormat is the raster encoding of an Image clip.
type ImageFormat string

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
	ImageTIFF ImageFormat = "tiff"
)

// Clip is the central stored entity: one capture event with every
// representation and piece of metadata the repository keeps for it.
type Clip struct {
	ID             string
	ContentType    ContentKind
	ContentText    string
	ContentHTML    string
	ContentRTF     string
	ImagePath      string
	SVGPath        string
	PDFPath        string
	AttachmentPath string
	AttachmentType string
	FilePaths      []string
	DetectedType   DetectedKind
	Metadata       map[string]string
	CreatedAt      int64
	UpdatedAt      int64
	AppName        string
	IsPinned       bool
	IsFavorite     bool
	AccessCount    int64
	ContentHash    string

	// Score is populated only by the semantic retrieval path.
	Score *float32
}

// Embedding is the 1:1 vector representation of a clip's content_text.
type Embedding struct {
	ClipID     string
	Vector     []float32
	Model      string
	Dimensions int
	CreatedAt  int64
	UpdatedAt  int64
}

// Tag is a user-defined label a clip can carry. Supplemental to the core
// clip/embedding model: deleting a clip only removes its membership, never
// the tag definition.
type Tag struct {
	ID   string
	Name string
}

// Collection groups clips together by explicit membership.
type Collection struct {
	ID        string
	Name      string
	CreatedAt int64
}

// NewClipID produces the zero-padded nanosecond-timestamp id that makes
// clip ids sort lexicographically in capture order (Invariant 6).
func NewClipID(at time.Time) string {
	return formatClipID(at.UnixNano())
}

func formatClipID(nanos int64) string {
	// 19 digits covers nanoseconds since epoch through year ~2262.
	return fmt.Sprintf("%019d", nanos)
}
