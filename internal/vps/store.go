// Package vps keeps the list of remote host profiles in the user's VPS file.
package vps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/go-homedir"

	"machine-bootstrap/internal/format"
	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
)

var (
	ErrNotFound    = errors.New("vps entry not found")
	ErrDuplicateID = errors.New("duplicate vps id")
)

// Store is the VPS file loaded in memory. Saving writes back in the format it was read from.
type Store struct {
	Path    string
	Entries []model.VPSEntry
	Log     *logger.Logger
}

// UniqueID returns candidate when it is not taken, otherwise candidate-1, candidate-2, ...
func UniqueID(existing map[string]bool, candidate string) string {
	if !existing[candidate] {
		return candidate
	}
	for n := 1; ; n++ {
		id := candidate + "-" + strconv.Itoa(n)
		if !existing[id] {
			return id
		}
	}
}

// Load reads path. A missing file is an empty store. Entries are fixed on the way in (see Fix)
// and the file is rewritten when that changed anything, unless dryRun is set.
func Load(path string, log *logger.Logger, dryRun bool) (*Store, error) {
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{Path: path, Log: log}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if s.Entries, err = decode(path, raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if s.Fix() {
		if dryRun {
			log.Info("[INFO] [Dry Run] Would rewrite %s after fixing entries\n", path)
			return s, nil
		}
		log.Debug("[DEBUG] Rewriting %s after fixing entries\n", path)
		if err := s.Save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// decode accepts a {"vps": [...]} document or a bare list.
func decode(path string, raw []byte) ([]model.VPSEntry, error) {
	var doc model.VPSList
	if err := format.DecodeDocumentFile(path, raw, &doc); err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// Fix gives every entry an id, renames duplicate ids and expands "~" in file paths.
// It reports whether anything changed.
func (s *Store) Fix() bool {
	changed := false
	seen := map[string]bool{}
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.ID == "" {
			e.ID = UniqueID(seen, model.GenerateVPSID(e.Name, e.Host, e.User))
			changed = true
		} else if seen[e.ID] {
			id := UniqueID(seen, e.ID)
			s.Log.Warn("[WARN] "+messages.VPSFixedDuplicateID+"\n", e.ID, id)
			e.ID = id
			changed = true
		}
		seen[e.ID] = true

		for _, p := range []*string{&e.PrivateKey, &e.PostConnectScript} {
			if expanded, err := homedir.Expand(*p); err == nil && expanded != *p {
				*p = expanded
				changed = true
			}
		}
	}
	return changed
}

// Save writes the store to Path.
func (s *Store) Save() error {
	data, err := format.EncodeFile(s.Path, model.VPSList{Entries: s.Entries})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	return os.WriteFile(s.Path, data, 0644)
}

// IDs returns the set of ids in use.
func (s *Store) IDs() map[string]bool {
	ids := make(map[string]bool, len(s.Entries))
	for _, e := range s.Entries {
		ids[e.ID] = true
	}
	return ids
}

// Find returns the index of the entry with id, or -1.
func (s *Store) Find(id string) int {
	for i, e := range s.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the entry with id.
func (s *Store) Get(id string) (model.VPSEntry, error) {
	i := s.Find(id)
	if i < 0 {
		return model.VPSEntry{}, fmt.Errorf("%w: "+messages.VPSNotFoundFmt, ErrNotFound, id)
	}
	return s.Entries[i], nil
}

// Add appends e. An empty id is generated and made unique; an explicit id that is
// already taken yields ErrDuplicateID unless overwrite is set.
func (s *Store) Add(e model.VPSEntry, overwrite bool) (model.VPSEntry, error) {
	if e.ID == "" {
		e.ID = UniqueID(s.IDs(), model.GenerateVPSID(e.Name, e.Host, e.User))
	}
	if i := s.Find(e.ID); i >= 0 {
		if !overwrite {
			return e, fmt.Errorf("%w: "+messages.VPSDuplicateIDFmt, ErrDuplicateID, e.ID)
		}
		s.Entries[i] = e
		return e, nil
	}
	s.Entries = append(s.Entries, e)
	return e, nil
}

// Update applies fn to the entry with id. Changing the id to one already in use is rejected.
func (s *Store) Update(id string, fn func(*model.VPSEntry)) (model.VPSEntry, error) {
	i := s.Find(id)
	if i < 0 {
		return model.VPSEntry{}, fmt.Errorf("%w: "+messages.VPSNotFoundFmt, ErrNotFound, id)
	}
	updated := s.Entries[i]
	fn(&updated)
	if updated.ID == "" {
		updated.ID = id
	}
	if updated.ID != id && s.Find(updated.ID) >= 0 {
		return s.Entries[i], fmt.Errorf("%w: "+messages.VPSDuplicateIDFmt, ErrDuplicateID, updated.ID)
	}
	s.Entries[i] = updated
	return updated, nil
}

// Delete removes the entry with id.
func (s *Store) Delete(id string) (model.VPSEntry, error) {
	i := s.Find(id)
	if i < 0 {
		return model.VPSEntry{}, fmt.Errorf("%w: "+messages.VPSNotFoundFmt, ErrNotFound, id)
	}
	removed := s.Entries[i]
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return removed, nil
}
