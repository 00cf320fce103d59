package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"machine-bootstrap/internal/pkgmgr"
	"machine-bootstrap/internal/system"
)

func TestEffectiveID(t *testing.T) {
	assert.Equal(t, "fish-shell", Application{Name: "Fish Shell"}.EffectiveID())
	assert.Equal(t, "vs-code-insiders", Application{Name: "  VS Code (Insiders) "}.EffectiveID())
	assert.Equal(t, "custom", Application{ID: "custom", Name: "Fish Shell"}.EffectiveID())
}

func TestFlagsAndCategories(t *testing.T) {
	app := Application{SupportedSystems: []SystemSupport{Linux, WinMac}, Categories: []Category{Shells, CLITools}}
	assert.Equal(t, system.FlagAll, app.Flags())
	assert.Equal(t, system.FlagNone, Application{}.Flags())

	assert.True(t, app.InCategories(nil))
	assert.True(t, app.InCategories([]Category{Browsers, CLITools}))
	assert.False(t, app.InCategories([]Category{Browsers}))
}

func TestMethodAppliesTo(t *testing.T) {
	m := InstallMethod{OS: []string{"Ubuntu", " macos "}}
	assert.True(t, m.AppliesTo(system.For("ubuntu")))
	assert.True(t, m.AppliesTo(system.For("Macos")))
	assert.False(t, m.AppliesTo(system.For("Fedora")))
	assert.False(t, m.AppliesTo(system.For("Windows")))
}

func TestMethodCoverage(t *testing.T) {
	m := InstallMethod{PackageManager: pkgmgr.Apt}
	assert.False(t, m.HasPackage())
	m.PackageName = "fish"
	assert.True(t, m.HasPackage())

	m.Steps = &InstallSteps{Install: []string{"make install"}}
	assert.True(t, m.HasInstallSteps())
	assert.False(t, m.HasUninstallSteps())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("terminalemulators")
	require.True(t, ok)
	assert.Equal(t, TerminalEmulators, c)
	assert.Equal(t, "Terminal Emulators", c.DisplayName())
	assert.Equal(t, "Shells", Shells.DisplayName())
	_, ok = ParseCategory("nope")
	assert.False(t, ok)
	assert.Len(t, Categories(), 37)
}

func TestGenerateVPSID(t *testing.T) {
	assert.Equal(t, "my-box-root", GenerateVPSID("My Box", "10.0.0.1", "root"))
	assert.Equal(t, "10-0-0-1-user", GenerateVPSID("", "10.0.0.1", ""))
	assert.Equal(t, "a--b-admin", GenerateVPSID("a, b", "", "Admin"))
}

func TestPortAcceptsNumbersAndStrings(t *testing.T) {
	var e VPSEntry
	require.NoError(t, json.Unmarshal([]byte(`{"host":"h","port":"2222"}`), &e))
	assert.Equal(t, 2222, e.EffectivePort())

	require.NoError(t, json.Unmarshal([]byte(`{"host":"h","port":2200}`), &e))
	assert.Equal(t, Port("2200"), e.Port)

	out, err := json.Marshal(VPSEntry{Host: "h", Port: "22"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":"h","port":22}`, string(out))

	var y VPSEntry
	require.NoError(t, yaml.Unmarshal([]byte("host: h\nport: \"8022\"\n"), &y))
	assert.Equal(t, 8022, y.EffectivePort())

	assert.Equal(t, DefaultSSHPort, VPSEntry{Host: "h"}.EffectivePort())
	assert.Equal(t, DefaultSSHPort, VPSEntry{Host: "h", Port: "ssh"}.EffectivePort())
}

func TestBuiltinsHaveIDsAndMethods(t *testing.T) {
	seen := map[string]bool{}
	for _, app := range BuiltinApplications() {
		id := app.EffectiveID()
		assert.False(t, seen[id], id)
		seen[id] = true
		require.NotEmpty(t, app.Versions, id)
		assert.NotEmpty(t, app.CheckCommand(), id)
	}
	assert.True(t, seen["alacritty"])
}
