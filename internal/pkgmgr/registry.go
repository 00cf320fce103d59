package pkgmgr

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/shell"
	"machine-bootstrap/internal/system"
)

// ErrUnknownManager is returned for names outside the closed set.
var ErrUnknownManager = errors.New("unknown package manager")

// ErrNotAvailable is returned when a manager is missing and could not be bootstrapped.
var ErrNotAvailable = errors.New("package manager not available")

// nixProfileBin is where multi-user Nix installs place binaries. A freshly bootstrapped
// Nix is not on PATH until the shell profile is reloaded.
var nixProfileBin = "/nix/var/nix/profiles/default/bin"

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string, def bool) bool
}

// Options tweak a single install/uninstall/update call.
type Options struct {
	Cask   bool  // brew only
	Sudo   *bool // overrides the manager's fixed requirement when set
	DryRun bool
}

// Registry drives package managers through a shell runner.
type Registry struct {
	Runner   *shell.Runner
	Confirm  Confirmer
	Log      *logger.Logger
	System   system.Info
	LookPath func(string) (string, error)
}

// NewRegistry wires a registry for the given system.
func NewRegistry(runner *shell.Runner, confirm Confirmer, log *logger.Logger, sys system.Info) *Registry {
	return &Registry{Runner: runner, Confirm: confirm, Log: log, System: sys, LookPath: exec.LookPath}
}

// Command builds the invocation for op ("install", "uninstall" or "update") without running it.
func (m Manager) Command(op, pkg string, cask bool) (*shell.Command, error) {
	e, ok := table[m]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownManager, string(m))
	}

	var tmpl []string
	switch op {
	case "install":
		tmpl = e.install
	case "uninstall":
		tmpl = e.uninstall
	case "update":
		tmpl = e.update
	default:
		return nil, fmt.Errorf("unsupported operation %q for %s", op, m)
	}

	args := make([]string, 0, len(tmpl))
	for _, a := range tmpl {
		switch a {
		case pkgToken:
			args = append(args, pkg)
		case caskToken:
			if cask {
				args = append(args, "--cask")
			}
		default:
			args = append(args, a)
		}
	}
	return shell.New(e.bin).WithArgs(args...).WithSudo(e.sudo), nil
}

// CheckInstalled probes PATH for the manager's executable. It never changes the system.
func (r *Registry) CheckInstalled(m Manager) bool {
	e, ok := table[m]
	if !ok {
		return false
	}
	if _, err := r.LookPath(e.bin); err == nil {
		return true
	}
	if m == Nix {
		if _, err := os.Stat(filepath.Join(nixProfileBin, e.bin)); err == nil {
			return true
		}
	}
	return false
}

// CheckInstall probes for the manager and, for managers this tool can bootstrap, offers to
// install it. OS-native managers are only reported. In dry-run mode the bootstrap commands are
// printed and the manager is treated as usable.
func (r *Registry) CheckInstall(m Manager, dryRun bool) bool {
	if r.CheckInstalled(m) {
		return true
	}
	if !m.Convenience() {
		r.Log.Error("[ERROR] "+messages.ManagerNotInstalledFmt+"\n", m)
		return false
	}
	if !r.Confirm.Confirm(fmt.Sprintf(messages.ManagerOfferBootstrapFmt, m), false) {
		r.Log.Warn("[WARN] Skipping %s bootstrap\n", m)
		return false
	}

	steps, err := r.bootstrapSteps(m)
	if err != nil {
		r.Log.Error("[ERROR] %v\n", err)
		return false
	}
	r.Log.Info("[INFO] Installing package manager %s...\n", m)
	for _, step := range steps {
		if _, err := r.Runner.RunScript(step.line, step.sudo, dryRun); err != nil {
			r.Log.Error("[ERROR] Failed to install %s: %v\n", m, err)
			return false
		}
	}
	if dryRun {
		return true
	}
	return r.CheckInstalled(m)
}

// Install installs pkg with m. Nix only prints guidance.
func (r *Registry) Install(m Manager, pkg string, opts Options) (shell.Result, error) {
	if m == Nix {
		r.Log.Warn("[WARN] "+messages.NixInstallGuidanceFmt, pkg, pkg)
		return shell.Result{DryRun: opts.DryRun}, nil
	}
	return r.run(m, "install", pkg, opts)
}

// Uninstall removes pkg with m. Nix only prints guidance.
func (r *Registry) Uninstall(m Manager, pkg string, opts Options) (shell.Result, error) {
	if m == Nix {
		r.Log.Warn("[WARN] "+messages.NixUninstallGuidanceFmt, pkg)
		return shell.Result{DryRun: opts.DryRun}, nil
	}
	return r.run(m, "uninstall", pkg, opts)
}

// Update upgrades everything managed by m. Nix only prints guidance.
func (r *Registry) Update(m Manager, opts Options) (shell.Result, error) {
	if m == Nix {
		r.Log.Warn("[WARN] " + messages.NixUpdateGuidance)
		return shell.Result{DryRun: opts.DryRun}, nil
	}
	return r.run(m, "update", "", opts)
}

func (r *Registry) run(m Manager, op, pkg string, opts Options) (shell.Result, error) {
	cmd, err := m.Command(op, pkg, opts.Cask)
	if err != nil {
		return shell.Result{}, err
	}
	if opts.Sudo != nil {
		cmd.WithSudo(*opts.Sudo)
	}
	r.Log.Debug("[DEBUG] %s %s via %s\n", op, pkg, m)
	return r.Runner.Run(cmd, opts.DryRun)
}
