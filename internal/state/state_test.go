package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/logger"
)

func TestLoadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	st := Load(filepath.Join(dir, FileName), logger.Discard())
	assert.Empty(t, st.Fonts)

	corrupt := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{"), 0644))
	assert.NotNil(t, Load(corrupt, logger.Discard()).Fonts)

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte(`{"fonts": null}`), 0644))
	assert.NotNil(t, Load(null, logger.Discard()).Fonts)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	st := New()
	st.Fonts["Hack"] = FontState{Version: "v3.4.0", InstallPath: "/fonts/Hack", Files: []string{"/fonts/Hack/a.ttf"}}
	st.Fonts["FiraCode"] = FontState{Version: "latest"}
	require.NoError(t, Save(path, st, logger.Discard()))

	loaded := Load(path, logger.Discard())
	assert.Equal(t, st.Fonts, loaded.Fonts)
	assert.Equal(t, []string{"FiraCode", "Hack"}, loaded.FontNames())
}
