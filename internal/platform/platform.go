// Package platform implements the Platform Clipboard Adapter (spec §4.A):
// the small, OS-specific capability interface the ingestion pipeline reads
// and writes through, without ever leaking OS types above this package.
// One concrete Adapter per GOOS is selected at compile time via build tags.
package platform

import (
	"github.com/azure06/clipsx/internal/types"
)

// Adapter is the capability interface every per-OS implementation provides.
// All four operations are synchronous and may block on OS calls.
type Adapter interface {
	// Read returns the richest representation currently on the pasteboard,
	// or nil if the pasteboard is empty, following the priority order
	// files → office → image → html → rtf → text.
	Read() (*types.ClipboardContent, error)

	// Write places every constituent representation of content onto the
	// pasteboard, richest format declared first.
	Write(content *types.ClipboardContent) error

	// ChangeCounter returns a monotone counter if the OS provides one, or
	// -1 if it does not.
	ChangeCounter() int64

	// ActiveAppName is a best-effort foreground-app name; "" if unknown.
	ActiveAppName() string
}
