// Package config implements the Configuration component (SPEC_FULL §4.J):
// typed JSON settings, OS-specific data-root resolution, and atomic writes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/azure06/clipsx/pkg/utils"
)

const appName = "clipsx"

// Paths holds every filesystem location the daemon needs.
type Paths struct {
	DataRoot    string // <OS app-data dir>/clipsx/
	ConfigFile  string // <OS app-config dir>/clipsx/settings.json
	DBFile      string // <data root>/clips.db
	ImagesDir   string
	SVGDir      string
	PDFDir      string
	OfficeDir   string
	ModelCache  string // <data root>/.fastembed_cache/
	SocketPath  string // IPC endpoint
}

// Settings is the persisted, user-editable configuration. The core reads
// SemanticSearchEnabled, SemanticModel and PollingIntervalMS; every other
// field is UI-owned state the core persists faithfully.
type Settings struct {
	DeviceName            string `json:"device_name"`
	SemanticSearchEnabled bool   `json:"semantic_search_enabled"`
	SemanticModel         string `json:"semantic_model"`
	PollingIntervalMS     int64  `json:"polling_interval_ms"`
	RetentionCount        int    `json:"retention_count"`
	RetentionDays         int    `json:"retention_days"`
	StealthMode           bool   `json:"stealth_mode"`
	LaunchAtStartup       bool   `json:"launch_at_startup"`
}

// DefaultSettings returns the settings written for a brand-new install.
func DefaultSettings() *Settings {
	return &Settings{
		SemanticSearchEnabled: false,
		SemanticModel:         "all-MiniLM-L6-v2",
		PollingIntervalMS:     500,
		RetentionCount:        0,
		RetentionDays:         0,
	}
}

// ResolvePaths computes every OS-specific path clipsx needs, honoring
// CLIPSX_DATA_DIR / CLIPSX_CONFIG_DIR overrides for tests and packaging.
func ResolvePaths() (*Paths, error) {
	dataRoot := os.Getenv("CLIPSX_DATA_DIR")
	if dataRoot != "" {
		expanded, err := utils.ExpandPath(dataRoot)
		if err != nil {
			return nil, fmt.Errorf("config: expand CLIPSX_DATA_DIR: %w", err)
		}
		dataRoot = expanded
	}
	if dataRoot == "" {
		base, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		switch runtime.GOOS {
		case "windows":
			appData, err := os.UserConfigDir()
			if err == nil {
				dataRoot = filepath.Join(appData, "clipsx")
			} else {
				dataRoot = filepath.Join(base, "AppData", "Local", "clipsx")
			}
		case "darwin":
			dataRoot = filepath.Join(base, "Library", "Application Support", appName)
		default:
			if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
				dataRoot = filepath.Join(xdg, appName)
			} else {
				dataRoot = filepath.Join(base, ".local", "share", appName)
			}
		}
	}

	configDir := os.Getenv("CLIPSX_CONFIG_DIR")
	if configDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve config directory: %w", err)
		}
		configDir = filepath.Join(dir, appName)
	}

	clipboardData := filepath.Join(dataRoot, "clipboard_data")
	paths := &Paths{
		DataRoot:   dataRoot,
		ConfigFile: filepath.Join(configDir, "settings.json"),
		DBFile:     filepath.Join(dataRoot, "clips.db"),
		ImagesDir:  filepath.Join(clipboardData, "images"),
		SVGDir:     filepath.Join(clipboardData, "svg"),
		PDFDir:     filepath.Join(clipboardData, "pdf"),
		OfficeDir:  filepath.Join(clipboardData, "office"),
		ModelCache: filepath.Join(dataRoot, ".fastembed_cache"),
		SocketPath: socketPath(dataRoot),
	}

	for _, dir := range []string{dataRoot, configDir, clipboardData, paths.ImagesDir, paths.SVGDir, paths.PDFDir, paths.OfficeDir, paths.ModelCache} {
		if err := utils.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("config: create %s: %w", dir, err)
		}
	}

	return paths, nil
}

// Load reads settings.json, creating it with defaults if absent.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s := DefaultSettings()
			if err := Save(path, s); err != nil {
				return nil, fmt.Errorf("config: create default settings: %w", err)
			}
			return s, nil
		}
		return nil, fmt.Errorf("config: read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: parse settings: %w", err)
	}
	return &s, nil
}

// Save pretty-prints s to path atomically: write to a temp file in the
// same directory, then rename over the destination.
func Save(path string, s *Settings) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.json.tmp")
	if err != nil {
		return fmt.Errorf("config: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("config: rename temp file: %w", err)
	}
	return nil
}

// SelfHeal clears semantic_search_enabled if the named model is not
// present in modelCache, per the startup self-heal rule. It only changes s;
// persisting the correction is left to the caller. Returns true if it
// changed anything.
func (s *Settings) SelfHeal(modelCache string, modelPresent func(modelCache, name string) bool) bool {
	if s.SemanticSearchEnabled && !modelPresent(modelCache, s.SemanticModel) {
		s.SemanticSearchEnabled = false
		return true
	}
	return false
}

func socketPath(dataRoot string) string {
	if runtime.GOOS == "windows" {
		return `\\.\pipe\clipsx`
	}
	return filepath.Join(dataRoot, "clipsx.sock")
}
