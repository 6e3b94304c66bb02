// Package hashing implements the canonical per-content-kind hash rules
// (spec §4.B) that the change monitor and the ingestion coordinator both
// rely on: a deduplicated capture must hash identically no matter which of
// the two computed it, and rich-text captures must hash to the same value
// as the plain-text capture of the same human content.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/azure06/clipsx/internal/types"
)

func hexSum(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Content computes the canonical hash for a freshly read or reconstructed
// ClipboardContent, per spec §4.B.
func Content(c *types.ClipboardContent) (string, error) {
	switch c.Kind {
	case types.KindText:
		return hexSum([]byte(c.Text)), nil
	case types.KindHTML, types.KindRTF:
		// Rich text dedupes against plain text copied from elsewhere:
		// only the plain projection feeds the hash.
		return hexSum([]byte(c.Plain)), nil
	case types.KindImage:
		return Image(c.ImageBytes)
	case types.KindFiles:
		return hexSum([]byte(strings.Join(c.Paths, "|"))), nil
	case types.KindOffice:
		return office(c), nil
	default:
		return hexSum([]byte(c.Text)), nil
	}
}

// Image decodes raw image bytes and hashes (width, height, rgba pixels),
// deliberately ignoring any metadata (EXIF, timestamps) embedded alongside
// the pixel data so two captures of the same picture always collide.
func Image(raw []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		// Fall back to hashing the raw bytes: still deterministic, just no
		// longer metadata-independent. This only triggers on a format the
		// standard decoders don't recognize.
		return hexSum(raw), nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	buf := make([]byte, 0, w*h*4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			buf = append(buf, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
		}
	}

	dims := make([]byte, 8)
	binary.LittleEndian.PutUint32(dims[0:4], uint32(w))
	binary.LittleEndian.PutUint32(dims[4:8], uint32(h))

	return hexSum(dims, buf), nil
}

// office applies the priority chain from spec §4.B: extracted text first,
// then the richest binary representation present.
func office(c *types.ClipboardContent) string {
	if strings.TrimSpace(c.ExtractedText) != "" {
		return hexSum([]byte(c.ExtractedText))
	}
	if len(c.PDF) > 0 {
		return hexSum(c.PDF)
	}
	if len(c.SVG) > 0 {
		return hexSum(c.SVG)
	}
	if len(c.PNG) > 0 {
		png, err := Image(c.PNG)
		if err == nil {
			return png
		}
	}
	return hexSum(c.OLEBytes)
}
