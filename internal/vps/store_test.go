package vps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/model"
)

func TestUniqueID(t *testing.T) {
	existing := map[string]bool{"web-root": true, "web-root-1": true}
	assert.Equal(t, "db-root", UniqueID(existing, "db-root"))
	assert.Equal(t, "web-root-2", UniqueID(existing, "web-root"))
	assert.Equal(t, "x", UniqueID(nil, "x"))
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "vps.yaml"), logger.Discard(), false)
	require.NoError(t, err)
	assert.Empty(t, s.Entries)
}

func TestLoadFixesAndSavesInSourceFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vps.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"id": "box", "host": "a.example"},
  {"id": "box", "host": "b.example"},
  {"name": "Web", "host": "c.example", "user": "root", "private_key": "~/.ssh/id_ed25519", "port": "2222"}
]`), 0644))

	s, err := Load(path, logger.Discard(), false)
	require.NoError(t, err)
	require.Len(t, s.Entries, 3)
	assert.Equal(t, "box", s.Entries[0].ID)
	assert.Equal(t, "box-1", s.Entries[1].ID)
	assert.Equal(t, "web-root", s.Entries[2].ID)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), s.Entries[2].PrivateKey)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"vps": [`)
	assert.Contains(t, string(raw), `"box-1"`)
	assert.Contains(t, string(raw), `"port": 2222`)

	again, err := Load(path, logger.Discard(), false)
	require.NoError(t, err)
	assert.False(t, again.Fix())
}

func TestLoadDryRunLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vps.yaml")
	original := []byte("vps:\n  - id: box\n    host: a.example\n  - id: box\n    host: b.example\n")
	require.NoError(t, os.WriteFile(path, original, 0644))

	s, err := Load(path, logger.Discard(), true)
	require.NoError(t, err)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, "box-1", s.Entries[1].ID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(raw))
}

func TestCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vps.xml")
	s, err := Load(path, logger.Discard(), false)
	require.NoError(t, err)

	added, err := s.Add(model.VPSEntry{Name: "db", Host: "10.0.0.2", User: "admin"}, false)
	require.NoError(t, err)
	assert.Equal(t, "db-admin", added.ID)

	second, err := s.Add(model.VPSEntry{Name: "db", Host: "10.0.0.3", User: "admin"}, false)
	require.NoError(t, err)
	assert.Equal(t, "db-admin-1", second.ID)

	_, err = s.Add(model.VPSEntry{ID: "db-admin", Host: "10.0.0.4"}, false)
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = s.Add(model.VPSEntry{ID: "db-admin", Name: "db", Host: "10.0.0.4"}, true)
	require.NoError(t, err)

	updated, err := s.Update("db-admin-1", func(e *model.VPSEntry) { e.Port = "2200" })
	require.NoError(t, err)
	assert.Equal(t, 2200, updated.EffectivePort())

	_, err = s.Update("db-admin-1", func(e *model.VPSEntry) { e.ID = "db-admin" })
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = s.Update("nope", func(*model.VPSEntry) {})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save())
	reloaded, err := Load(path, logger.Discard(), false)
	require.NoError(t, err)
	require.Len(t, reloaded.Entries, 2)
	assert.Equal(t, "10.0.0.4", reloaded.Entries[0].Host)
	assert.Equal(t, model.Port("2200"), reloaded.Entries[1].Port)

	removed, err := reloaded.Delete("db-admin")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.4", removed.Host)
	_, err = reloaded.Get("db-admin")
	assert.ErrorIs(t, err, ErrNotFound)
}
