// Package monitor implements the Change Monitor (spec §4.B): it decides
// whether the clipboard holds content the ingestion pipeline has not yet
// seen, using the platform adapter's native change counter as a fast path
// and falling back to content hashing when no counter is available.
package monitor

import (
	"fmt"

	"github.com/azure06/clipsx/internal/hashing"
	"github.com/azure06/clipsx/internal/platform"
	"github.com/azure06/clipsx/internal/types"
)

// Result is the outcome of a single Check call.
type Result struct {
	Changed   bool
	Content   *types.ClipboardContent
	Hash      string
	SourceApp string
}

var unchanged = Result{}

// Monitor wraps a platform.Adapter with change-detection state. It is not
// safe for concurrent use; the ingestion coordinator ticks it serially.
type Monitor struct {
	adapter platform.Adapter

	hasChangeCounter bool
	lastChangeCount  int64

	lastHash     string
	lastWroteHash string
}

// New builds a Monitor around adapter. hasChangeCounter should be true only
// for adapters whose ChangeCounter() reflects a real OS-maintained value
// (darwin's NSPasteboard.changeCount); linux and windows report a counter
// too, but windows' GetClipboardSequenceNumber is authoritative while
// linux's X11 adapter fakes one from its own writes only, so linux always
// hashes.
func New(adapter platform.Adapter, hasChangeCounter bool) *Monitor {
	return &Monitor{adapter: adapter, hasChangeCounter: hasChangeCounter, lastChangeCount: -1}
}

// Check reads the clipboard if needed and reports whether it holds content
// not already accounted for.
func (m *Monitor) Check() (Result, error) {
	if m.hasChangeCounter {
		current := m.adapter.ChangeCounter()
		if current >= 0 && current == m.lastChangeCount {
			return unchanged, nil
		}
		return m.readAndCompare(current)
	}
	return m.readAndCompare(-1)
}

func (m *Monitor) readAndCompare(observedCount int64) (Result, error) {
	content, err := m.adapter.Read()
	if err != nil {
		return unchanged, fmt.Errorf("monitor: read clipboard: %w", err)
	}
	if content == nil {
		return unchanged, nil
	}

	hash, err := hashing.Content(content)
	if err != nil {
		return unchanged, fmt.Errorf("monitor: hash content: %w", err)
	}

	if m.hasChangeCounter {
		m.lastChangeCount = observedCount
	}

	if m.lastWroteHash != "" && hash == m.lastWroteHash {
		m.lastWroteHash = ""
		m.lastHash = hash
		return unchanged, nil
	}
	m.lastWroteHash = ""

	if hash == m.lastHash {
		return unchanged, nil
	}
	m.lastHash = hash

	return Result{
		Changed:   true,
		Content:   content,
		Hash:      hash,
		SourceApp: content.SourceApp,
	}, nil
}

// NotifyWrote tells the monitor that content was just written by clipsx
// itself, so the next Check call should suppress it rather than treat it
// as a newly captured clip.
func (m *Monitor) NotifyWrote(content *types.ClipboardContent) {
	if m.hasChangeCounter {
		count := m.adapter.ChangeCounter()
		m.lastChangeCount = count
	}
	if hash, err := hashing.Content(content); err == nil {
		m.lastWroteHash = hash
		m.lastHash = hash
	}
}
