package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"machine-bootstrap/internal/format"
)

// Paths locates the configuration directory and the files inside it.
type Paths struct {
	Dir string
}

// DefaultPaths resolves <user config dir>/machine-bootstrap.
func DefaultPaths() (Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := homedir.Dir()
		if herr != nil {
			return Paths{}, fmt.Errorf("cannot determine config directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return Paths{Dir: filepath.Join(base, AppName)}, nil
}

// SettingsFile returns the first existing config.{yaml,yml,json,xml}, or config.yaml.
func (p Paths) SettingsFile() string {
	for _, ext := range []string{"yaml", "yml", "json", "xml"} {
		candidate := filepath.Join(p.Dir, "config."+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(p.Dir, "config.yaml")
}

// Defaults returns the settings used when nothing is configured.
func (p Paths) Defaults() Settings {
	return Settings{
		ApplicationsFile: filepath.Join(p.Dir, "applications.yaml"),
		VPSFile:          filepath.Join(p.Dir, "vps.yaml"),
		LogDirectory:     filepath.Join(p.Dir, "logs"),
		LogOutput:        LogPrimary,
	}
}

// Load reads the settings file at path. A missing file is created from defaults.
// Empty log_directory is patched and written back.
func (p Paths) Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		def := p.Defaults()
		if err := Save(path, def); err != nil {
			return Settings{}, err
		}
		return def, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var s Settings
	if err := format.DecodeFile(path, raw, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.LogDirectory == "" {
		s.LogDirectory = p.Defaults().LogDirectory
		if err := Save(path, s); err != nil {
			return Settings{}, err
		}
	}
	if s.LogOutput == "" {
		s.LogOutput = LogPrimary
	}
	return s, nil
}

// Save writes s to path in the format given by its extension.
func Save(path string, s Settings) error {
	data, err := format.EncodeFile(path, s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Reset overwrites the settings file with defaults.
func (p Paths) Reset(path string) (Settings, error) {
	def := p.Defaults()
	return def, Save(path, def)
}

// Fix fills empty fields from the defaults and expands "~" in paths. It returns the names of the
// fields it changed. A file that cannot be parsed is replaced by defaults.
func (p Paths) Fix(path string) (Settings, []string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		def, err := p.Reset(path)
		return def, []string{"created"}, err
	}
	if err != nil {
		return Settings{}, nil, err
	}

	var s Settings
	if err := format.DecodeFile(path, raw, &s); err != nil {
		def, err := p.Reset(path)
		return def, []string{"recreated"}, err
	}

	def := p.Defaults()
	var changed []string
	patch := func(name string, field *string, fallback string) {
		if *field == "" {
			*field = fallback
			changed = append(changed, name)
			return
		}
		if expanded, err := homedir.Expand(*field); err == nil && expanded != *field {
			*field = expanded
			changed = append(changed, name)
		}
	}
	patch("applications_file", &s.ApplicationsFile, def.ApplicationsFile)
	patch("vps_file", &s.VPSFile, def.VPSFile)
	patch("log_directory", &s.LogDirectory, def.LogDirectory)
	if s.LogOutput == "" {
		s.LogOutput = LogPrimary
		changed = append(changed, "log_output")
	}

	if len(changed) > 0 {
		if err := Save(path, s); err != nil {
			return s, changed, err
		}
	}
	return s, changed, nil
}
