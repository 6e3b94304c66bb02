// Package sidecar implements the Sidecar File Store (spec §4.E): binary
// clip representations live as files keyed by clip id, not database BLOBs.
package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/azure06/clipsx/internal/types"
	"github.com/azure06/clipsx/pkg/utils"
)

const (
	dirImages      = "images"
	dirSVG         = "svg"
	dirPDF         = "pdf"
	dirAttachments = "office"
)

// Store manages the per-kind subdirectories under a data root.
type Store struct {
	root string
}

// New returns a Store rooted at root, creating its subdirectories if
// absent. Directory creation is idempotent, safe to call at every
// process start.
func New(root string) (*Store, error) {
	for _, dir := range []string{dirImages, dirSVG, dirPDF, dirAttachments} {
		if err := utils.EnsureDir(filepath.Join(root, dir)); err != nil {
			return nil, fmt.Errorf("sidecar: create %s directory: %w", dir, err)
		}
	}
	return &Store{root: root}, nil
}

// Paths is the set of sidecar file paths a clip may reference, matching
// the Clip fields of the same name.
type Paths struct {
	ImagePath      string
	SVGPath        string
	PDFPath        string
	AttachmentPath string
}

// Write persists every binary representation present in content under id,
// returning the paths the repository should store on the clip row.
func (s *Store) Write(id string, content *types.ClipboardContent) (Paths, error) {
	var paths Paths

	if len(content.ImageBytes) > 0 {
		ext := imageExtension(content.ImageFormat)
		p := filepath.Join(s.root, dirImages, id+ext)
		if err := os.WriteFile(p, content.ImageBytes, 0o644); err != nil {
			return paths, fmt.Errorf("sidecar: write image: %w", err)
		}
		paths.ImagePath = p
	}

	if len(content.SVG) > 0 {
		p := filepath.Join(s.root, dirSVG, id+".svg")
		if err := os.WriteFile(p, content.SVG, 0o644); err != nil {
			return paths, fmt.Errorf("sidecar: write svg: %w", err)
		}
		paths.SVGPath = p
	}

	if len(content.PDF) > 0 {
		p := filepath.Join(s.root, dirPDF, id+".pdf")
		if err := os.WriteFile(p, content.PDF, 0o644); err != nil {
			return paths, fmt.Errorf("sidecar: write pdf: %w", err)
		}
		paths.PDFPath = p
	}

	if len(content.OLEBytes) > 0 {
		p := filepath.Join(s.root, dirAttachments, id+attachmentExtension(content.OLEType))
		if err := os.WriteFile(p, content.OLEBytes, 0o644); err != nil {
			return paths, fmt.Errorf("sidecar: write attachment: %w", err)
		}
		paths.AttachmentPath = p
	}

	return paths, nil
}

func imageExtension(format types.ImageFormat) string {
	switch format {
	case types.ImageJPEG:
		return ".jpg"
	case types.ImageTIFF:
		return ".tiff"
	default:
		return ".png"
	}
}

// attachmentExtension derives a filesystem-safe extension from a UTI or
// similar type tag; unknown types fall back to a generic binary extension.
func attachmentExtension(oleType string) string {
	if oleType == "" {
		return ".bin"
	}
	if i := lastIndexByte(oleType, '.'); i >= 0 && i < len(oleType)-1 {
		return "." + oleType[i+1:]
	}
	return ".bin"
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// Delete removes every non-empty path in paths. A missing file is not an
// error; any other failure is returned so the caller can log it without
// treating it as fatal.
func (s *Store) Delete(paths Paths) error {
	var errs []error
	for _, p := range []string{paths.ImagePath, paths.SVGPath, paths.PDFPath, paths.AttachmentPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("sidecar: delete %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// Read loads the sidecar bytes referenced by paths, for restoring a clip
// back onto the clipboard.
func (s *Store) Read(paths Paths) (image, svg, pdf, attachment []byte, err error) {
	if paths.ImagePath != "" {
		if image, err = os.ReadFile(paths.ImagePath); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("sidecar: read image: %w", err)
		}
	}
	if paths.SVGPath != "" {
		if svg, err = os.ReadFile(paths.SVGPath); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("sidecar: read svg: %w", err)
		}
	}
	if paths.PDFPath != "" {
		if pdf, err = os.ReadFile(paths.PDFPath); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("sidecar: read pdf: %w", err)
		}
	}
	if paths.AttachmentPath != "" {
		if attachment, err = os.ReadFile(paths.AttachmentPath); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("sidecar: read attachment: %w", err)
		}
	}
	return image, svg, pdf, attachment, nil
}
