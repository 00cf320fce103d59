package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/catalog"
	"machine-bootstrap/internal/config"
)

const (
	validApps = `{"applications": [{"name": "htop", "supported_systems": ["Linux"], "versions": [{"name": "latest",
  "install_methods": [{"os": ["Linux"], "package_manager": "apt", "package_name": "htop"}]}]}]}`
	bareApps = `[{"name": "htop", "supported_systems": ["Linux"], "versions": [{"name": "latest",
  "install_methods": [{"os": ["Linux"], "package_manager": "apt", "package_name": "htop"}]}]}]`
	validVPS = `{"vps": [{"name": "web", "host": "10.0.0.5"}]}`
)

func writeSource(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func override(src string) error {
	return configOverrideCmd.RunE(configOverrideCmd, []string{src})
}

func TestOverrideDetectsKind(t *testing.T) {
	tests := []struct {
		name string
		file string
		kind string
		body string
		dst  func() string
		want string
	}{
		{"applications by name", "apps.json", "", validApps, func() string { return env.Settings.ApplicationsFile }, "name: htop"},
		{"bare applications list", "apps.json", "", bareApps, func() string { return env.Settings.ApplicationsFile }, "applications:"},
		{"vps by name", "my-vps.json", "", validVPS, func() string { return env.Settings.VPSFile }, "host: 10.0.0.5"},
		{"vps by flag", "hosts.json", "vps", validVPS, func() string { return env.Settings.VPSFile }, "host: 10.0.0.5"},
		{"settings by name", "settings.json", "", `{"log_output": "stdout"}`, func() string { return env.SettingsFile }, "log_output: stdout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t, &scripted{confirm: true})
			kindFlag = tt.kind

			require.NoError(t, override(writeSource(t, tt.file, tt.body)))
			raw, err := os.ReadFile(tt.dst())
			require.NoError(t, err)
			assert.Contains(t, string(raw), tt.want)
		})
	}
}

func TestOverrideBareListLoadsAsCatalog(t *testing.T) {
	testEnv(t, &scripted{confirm: true})
	require.NoError(t, override(writeSource(t, "apps.json", bareApps)))

	apps, err := catalog.Load(env.Settings.ApplicationsFile)
	require.NoError(t, err)
	found, unknown := catalog.Select(apps, []string{"htop"})
	assert.Len(t, found, 1)
	assert.Empty(t, unknown)
}

func TestOverrideRejectsInvalidSource(t *testing.T) {
	testEnv(t, &scripted{confirm: true})
	err := override(writeSource(t, "vps.json", `{"vps": [{"name": "web", "port": 70000}]}`))
	assert.ErrorContains(t, err, "is not a valid vps file")
	assert.NoFileExists(t, env.Settings.VPSFile)
}

func TestOverrideConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		confirm bool
		want    string
	}{
		{"declined", false, "vps: []\n"},
		{"accepted", true, "host: 10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scripted{confirm: tt.confirm}
			testEnv(t, p)
			require.NoError(t, os.WriteFile(env.Settings.VPSFile, []byte("vps: []\n"), 0644))

			require.NoError(t, override(writeSource(t, "vps.json", validVPS)))
			assert.Equal(t, []string{"Replace " + env.Settings.VPSFile + "?"}, p.asked)

			raw, err := os.ReadFile(env.Settings.VPSFile)
			require.NoError(t, err)
			assert.Contains(t, string(raw), tt.want)
		})
	}
}

func TestOverrideWithoutExistingFileDoesNotAsk(t *testing.T) {
	p := &scripted{}
	testEnv(t, p)
	require.NoError(t, override(writeSource(t, "vps.json", validVPS)))
	assert.Empty(t, p.asked)
	assert.FileExists(t, env.Settings.VPSFile)
}

func TestOverrideDryRunWritesNothing(t *testing.T) {
	out := testEnv(t, &scripted{confirm: true})
	dryRun = true

	require.NoError(t, override(writeSource(t, "apps.json", validApps)))
	require.NoError(t, override(writeSource(t, "vps.json", validVPS)))
	assert.NoFileExists(t, env.Settings.ApplicationsFile)
	assert.NoFileExists(t, env.Settings.VPSFile)
	assert.Contains(t, out.String(), "[Dry Run] Would replace")
}

func TestOverrideKeepsSourceFormatWhenItMatches(t *testing.T) {
	testEnv(t, &scripted{confirm: true})
	env.Settings = config.Settings{VPSFile: filepath.Join(env.Paths.Dir, "vps.json")}

	require.NoError(t, override(writeSource(t, "vps.json", validVPS)))
	raw, err := os.ReadFile(env.Settings.VPSFile)
	require.NoError(t, err)
	assert.Equal(t, validVPS, string(raw))
}
