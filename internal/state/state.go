// Package state remembers what this tool installed outside of package managers, so that it can
// be removed again later.
package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"machine-bootstrap/internal/logger"
)

// FileName is the state file kept next to the settings file.
const FileName = "state.json"

// FontState records one installed font family.
// Files holds every file extracted for the font, so uninstall can remove exactly those.
type FontState struct {
	Version     string   `json:"version"`      // Release tag the font was downloaded from, "latest" when unknown
	InstallPath string   `json:"install_path"` // Directory the font files were extracted into
	Files       []string `json:"files"`        // Absolute paths of the extracted files
}

// State holds the entire saved state, keyed by font name.
type State struct {
	Fonts map[string]FontState `json:"fonts"`
}

// New returns an empty state.
func New() *State {
	return &State{Fonts: make(map[string]FontState)}
}

// Load reads the state file at path.
// A missing or unreadable file yields an empty state; a corrupt one is reported and ignored.
func Load(path string, log *logger.Logger) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		log.Debug("[DEBUG] No state file at %s: %v\n", path, err)
		return New()
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		log.Warn("[WARN] Ignoring corrupt state file %s: %v\n", path, err)
		return New()
	}

	// The file may contain "fonts": null
	if st.Fonts == nil {
		st.Fonts = make(map[string]FontState)
	}
	return &st
}

// Save writes st to path as indented JSON.
func Save(path string, st *State, log *logger.Logger) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	log.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// FontNames lists the recorded fonts in sorted order.
func (s *State) FontNames() []string {
	names := make([]string, 0, len(s.Fonts))
	for n := range s.Fonts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
