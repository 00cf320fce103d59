// Package fonts installs Nerd Fonts into the user's font directory.
package fonts

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/shell"
	"machine-bootstrap/internal/state"
	"machine-bootstrap/internal/system"
)

var (
	ErrUnknownFont      = errors.New("unknown font")
	ErrAlreadyInstalled = errors.New("font already installed")
	ErrNotInstalled     = errors.New("font not installed")
)

// Names is every font family published by the Nerd Fonts project.
var Names = []string{
	"3270", "0xProto", "Agave", "AnonymousPro", "Arimo", "AurulentSansMono", "BigBlueTerminal",
	"BitstreamVeraSansMono", "CascadiaCode", "CascadiaMono", "CodeNewRoman", "ComicShannsMono", "CommitMono",
	"Cousine", "D2Coding", "DaddyTimeMono", "DejaVuSansMono", "DepartureMono", "DroidSansMono", "EnvyCodeR",
	"FantasqueSansMono", "FiraCode", "FiraMono", "FontPatcher", "GeistMono", "Go-Mono", "Gohu", "Hack", "Hasklig",
	"HeavyData", "Hermit", "iA-Writer", "IBMPlexMono", "Inconsolata", "InconsolataGo", "InconsolataLGC",
	"IntelOneMono", "Iosevka", "IosevkaTerm", "IosevkaTermSlab", "JetBrainsMono", "Lekton", "LiberationMono",
	"Lilex", "MartianMono", "Meslo", "Monaspace", "Monofur", "Monoid", "Mononoki", "MPlus", "NerdFontsSymbolsOnly",
	"Noto", "OpenDyslexic", "Overpass", "ProFont", "ProggyClean", "Recursive", "RobotoMono", "ShareTechMono",
	"SourceCodePro", "SpaceMono", "Terminus", "Tinos", "Ubuntu", "UbuntuMono", "UbuntuSans", "VictorMono",
	"ZedMono",
}

// Valid reports whether name is a known font family. Names are case-sensitive, as in the archives.
func Valid(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Dir is the per-user font directory for sys.
func Dir(sys system.Info) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	switch system.Family(sys.OS) {
	case system.MacOS:
		return filepath.Join(home, "Library", "Fonts"), nil
	case system.Windows:
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Microsoft", "Windows", "Fonts"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "Microsoft", "Windows", "Fonts"), nil
	}
	return filepath.Join(home, ".local", "share", "fonts"), nil
}

// Manager installs and removes fonts and keeps track of their files in the state file.
type Manager struct {
	Dir       string // each font goes into Dir/<name>
	StatePath string
	Log       *logger.Logger
	Shell     *shell.Runner
	System    system.Info
	Client    *http.Client
	APIBase   string
	Repo      string
	DryRun    bool
}

// NewManager returns a Manager for the GitHub hosted Nerd Fonts releases.
func NewManager(dir, statePath string, runner *shell.Runner, log *logger.Logger, sys system.Info, dryRun bool) *Manager {
	return &Manager{
		Dir:       dir,
		StatePath: statePath,
		Log:       log,
		Shell:     runner,
		System:    sys,
		Client:    &http.Client{Timeout: 5 * time.Minute},
		APIBase:   DefaultAPIBase,
		Repo:      DefaultRepo,
		DryRun:    dryRun,
	}
}

// IsInstalled checks for the font's folder.
func (m *Manager) IsInstalled(name string) bool {
	info, err := os.Stat(filepath.Join(m.Dir, name))
	return err == nil && info.IsDir()
}

// Status is one row of List.
type Status struct {
	Name      string
	Installed bool
}

// List reports every known font and whether it is installed.
func (m *Manager) List() []Status {
	out := make([]Status, len(Names))
	for i, n := range Names {
		out[i] = Status{Name: n, Installed: m.IsInstalled(n)}
	}
	return out
}

// Install downloads the latest archive of name and extracts it into Dir/name.
func (m *Manager) Install(name string) error {
	if !Valid(name) {
		m.Log.Error("[ERROR] Invalid font name: %s\n", name)
		m.event("install", name, logger.LevelError, "invalid_font", 0)
		return fmt.Errorf("%w: %s", ErrUnknownFont, name)
	}
	if m.IsInstalled(name) {
		m.Log.Warn("[WARN] %s is already installed.\n", name)
		m.event("install", name, logger.LevelInfo, "skipped", 0)
		return fmt.Errorf("%w: %s", ErrAlreadyInstalled, name)
	}
	dest := filepath.Join(m.Dir, name)
	if m.DryRun {
		m.Log.Info("[INFO] [Dry Run] Would download %s from %s into %s\n", name, m.Repo, dest)
		return nil
	}

	start := time.Now()
	release, err := m.latestRelease()
	if err != nil {
		m.event("install", name, logger.LevelError, "download_failed", 0)
		return err
	}
	asset, url, err := release.assetFor(name)
	if err != nil {
		m.event("install", name, logger.LevelError, "download_failed", 0)
		return err
	}

	tmp, err := os.MkdirTemp("", "nerd-font-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	archive := filepath.Join(tmp, asset)
	m.Log.Info("[INFO] Downloading %s\n", name)
	if err := m.downloadFile(url, archive); err != nil {
		m.event("install", name, logger.LevelError, "download_failed", 0)
		return err
	}

	m.Log.Info("[INFO] Extracting...\n")
	files, err := Extract(archive, dest)
	if err != nil {
		m.event("install", name, logger.LevelError, "unzip_failed", 0)
		// Leave no half-populated folder behind, or IsInstalled would report it.
		_ = os.RemoveAll(dest)
		return fmt.Errorf("extract %s: %w", asset, err)
	}

	st := state.Load(m.StatePath, m.Log)
	st.Fonts[name] = state.FontState{Version: release.TagName, InstallPath: dest, Files: files}
	if err := state.Save(m.StatePath, st, m.Log); err != nil {
		m.Log.Warn("[WARN] %v\n", err)
	}

	m.Log.Info("[INFO] Installed %s (%s, %d files)\n", name, release.TagName, len(files))
	m.event("install", name, logger.LevelInfo, "success", time.Since(start))
	return nil
}

// Uninstall removes the files recorded for name, then its folder.
func (m *Manager) Uninstall(name string) error {
	if !Valid(name) {
		return fmt.Errorf("%w: %s", ErrUnknownFont, name)
	}
	st := state.Load(m.StatePath, m.Log)
	fs, recorded := st.Fonts[name]
	if !recorded && !m.IsInstalled(name) {
		m.Log.Warn("[WARN] %s is not installed.\n", name)
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	dir := filepath.Join(m.Dir, name)
	if m.DryRun {
		m.Log.Info("[INFO] [Dry Run] Would remove %s\n", dir)
		return nil
	}

	m.uninstallFont(name, fs)
	if err := os.RemoveAll(dir); err != nil {
		m.event("uninstall", name, logger.LevelError, "failed", 0)
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	delete(st.Fonts, name)
	if err := state.Save(m.StatePath, st, m.Log); err != nil {
		m.Log.Warn("[WARN] %v\n", err)
	}
	m.Log.Info("[INFO] Uninstalled %s\n", name)
	m.event("uninstall", name, logger.LevelInfo, "success", 0)
	return nil
}

// uninstallFont removes each recorded file and reports whether any was removed.
func (m *Manager) uninstallFont(name string, fontState state.FontState) bool {
	removed := false
	for _, file := range fontState.Files {
		err := os.Remove(file)
		if err == nil {
			m.Log.Debug("[DEBUG] Removed font file: %s\n", file)
			removed = true
		} else if !errors.Is(err, os.ErrNotExist) {
			m.Log.Error("[ERROR] Failed to remove font file %s: %v\n", file, err)
		}
	}
	if !removed && len(fontState.Files) > 0 {
		m.Log.Warn("[WARN] No font files removed for %s\n", name)
	}
	return removed
}

// Update reinstalls every installed font and returns the ones it touched.
func (m *Manager) Update() ([]string, error) {
	var updated []string
	var errs []error
	for _, n := range Names {
		if !m.IsInstalled(n) {
			continue
		}
		m.Log.Info("[INFO] Updating %s\n", n)
		if err := m.Uninstall(n); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := m.Install(n); err != nil {
			errs = append(errs, err)
			continue
		}
		updated = append(updated, n)
	}
	if len(updated) == 0 && len(errs) == 0 {
		m.Log.Warn("[WARN] No fonts were installed, nothing to update.\n")
	}
	return updated, errors.Join(errs...)
}

// Refresh rebuilds the font cache. Only Linux has one to rebuild.
func (m *Manager) Refresh() error {
	if system.Family(m.System.OS) != system.Linux {
		return nil
	}
	if _, err := m.Shell.Run(shell.New("fc-cache").WithArgs("-f", "-v"), m.DryRun); err != nil {
		m.Log.Error("[ERROR] Failed to refresh font cache: %v\n", err)
		m.event("refresh", "nerd-fonts", logger.LevelError, "failed fc-cache", 0)
		return err
	}
	m.Log.Info("[INFO] Font cache refreshed.\n")
	m.event("refresh", "nerd-fonts", logger.LevelInfo, "success", 0)
	return nil
}

func (m *Manager) event(action, font, level, status string, d time.Duration) {
	e := logger.Entry{Level: level, Action: action, App: font, Status: status, Source: "fonts"}
	if d > 0 {
		e = e.WithDuration(d)
	}
	m.Log.Event(e)
}
