package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/format"
	"machine-bootstrap/internal/model"
)

func TestLoadCreatesDefaults(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	path := p.SettingsFile()
	assert.Equal(t, filepath.Join(p.Dir, "config.yaml"), path)

	s, err := p.Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Defaults(), s)
	assert.FileExists(t, path)
}

func TestSettingsFilePrefersExisting(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(p.Dir, "config.json"), []byte(`{}`), 0644))
	assert.Equal(t, filepath.Join(p.Dir, "config.json"), p.SettingsFile())
}

func TestLoadPatchesEmptyLogDirectory(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	path := filepath.Join(p.Dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"applications_file": "/a.yaml", "vps_file": "/v.yaml"}`), 0644))

	s, err := p.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/a.yaml", s.ApplicationsFile)
	assert.Equal(t, filepath.Join(p.Dir, "logs"), s.LogDirectory)
	assert.Equal(t, LogPrimary, s.LogOutput)

	var onDisk Settings
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, format.Decode(format.JSON, raw, &onDisk))
	assert.Equal(t, s.LogDirectory, onDisk.LogDirectory)
}

func TestFixFillsMissingFields(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	path := filepath.Join(p.Dir, "config.xml")
	require.NoError(t, Save(path, Settings{VPSFile: "/srv/vps.json", LogOutput: LogStdout}))

	s, changed, err := p.Fix(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"applications_file", "log_directory"}, changed)
	assert.Equal(t, "/srv/vps.json", s.VPSFile)
	assert.Equal(t, LogStdout, s.LogOutput)

	_, changed, err = p.Fix(path)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestFixRecreatesUnparseableFile(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	path := filepath.Join(p.Dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("applications_file: [unclosed"), 0644))

	s, changed, err := p.Fix(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"recreated"}, changed)
	assert.Equal(t, p.Defaults(), s)
}

func TestReplaceDocumentConvertsFormats(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	dst := filepath.Join(dir, "out", "settings.yaml")
	require.NoError(t, os.WriteFile(src, []byte(`{"vps_file": "/v.xml"}`), 0644))

	require.NoError(t, ReplaceDocument(src, dst, &Settings{}))
	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "vps_file: /v.xml")

	same := filepath.Join(dir, "copy.json")
	require.NoError(t, ReplaceDocument(src, same, &Settings{}))
	copied, err := os.ReadFile(same)
	require.NoError(t, err)
	assert.Equal(t, `{"vps_file": "/v.xml"}`, string(copied))
}

func TestReplaceDocumentWrapsBareList(t *testing.T) {
	tests := []struct {
		name string
		src  string
		doc  format.Lister
		want []string
	}{
		{
			name: "applications",
			src:  `[{"name": "htop", "supported_systems": ["Linux"]}]`,
			doc:  &model.ApplicationList{},
			want: []string{"applications:", "name: htop"},
		},
		{
			name: "vps",
			src:  `[{"name": "web", "host": "10.0.0.5"}, {"name": "db", "host": "10.0.0.6"}]`,
			doc:  &model.VPSList{},
			want: []string{"vps:", "host: 10.0.0.5", "host: 10.0.0.6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "bare.json")
			dst := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(src, []byte(tt.src), 0644))

			require.NoError(t, ReplaceDocument(src, dst, tt.doc))
			raw, err := os.ReadFile(dst)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(raw), w)
			}
		})
	}
}

func TestReplaceDocumentRejectsBareListForSettings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"vps_file": "/v.xml"}]`), 0644))
	assert.Error(t, ReplaceDocument(src, filepath.Join(dir, "config.yaml"), &Settings{}))
}
