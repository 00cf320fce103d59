package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/system"
)

func ids(apps []model.Application) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.EffectiveID()
	}
	return out
}

func TestLoadMissingFileFallsBackToBuiltins(t *testing.T) {
	apps, err := Load(filepath.Join(t.TempDir(), "applications.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ids(model.BuiltinApplications()), ids(apps))
}

func TestLoadMergesByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
applications:
  - id: fish-shell
    name: Fish (custom)
    supported_systems: [Linux]
  - name: Neovim Editor
    supported_systems: [Cross]
`), 0644))

	apps, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alacritty", "fish-shell", "zsh-shell", "neovim-editor"}, ids(apps))
	assert.Equal(t, "Fish (custom)", apps[1].Name)
}

func TestLoadBareList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "htop"}]`), 0644))

	apps, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, ids(apps), "htop")
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.xml")
	require.NoError(t, os.WriteFile(path, []byte("<applications>"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	apps := []model.Application{
		{Name: "desktop", SupportedSystems: []model.SystemSupport{model.Cross}, Categories: []model.Category{model.Browsers}},
		{Name: "server", SupportedSystems: []model.SystemSupport{model.MacLin}, ServerCompatible: true, Categories: []model.Category{model.Shells}},
		{Name: "win", SupportedSystems: []model.SystemSupport{model.Windows}, ServerCompatible: true},
		{Name: "nowhere"},
	}
	linux := system.For("Ubuntu")

	assert.Equal(t, []string{"desktop", "server"}, ids(Filter(apps, linux, false, nil)))
	assert.Equal(t, []string{"server"}, ids(Filter(apps, linux, true, nil)))
	assert.Equal(t, []string{"desktop"}, ids(Filter(apps, linux, false, []model.Category{model.Browsers, model.Gaming})))
	assert.Equal(t, []string{"desktop", "win"}, ids(Filter(apps, system.For("Windows"), false, nil)))
}

func TestSelect(t *testing.T) {
	found, unknown := Select(model.BuiltinApplications(), []string{"ZSH-SHELL", "Alacritty", "emacs"})
	assert.Equal(t, []string{"zsh-shell", "alacritty"}, ids(found))
	assert.Equal(t, []string{"emacs"}, unknown)
}
