// Package installer resolves which install method applies to an application on the current
// system and runs it, one application at a time.
package installer

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/pkgmgr"
	"machine-bootstrap/internal/shell"
	"machine-bootstrap/internal/system"
)

// Outcome is what happened to one application in a batch.
type Outcome string

const (
	Installed         Outcome = "installed"
	Uninstalled       Outcome = "uninstalled"
	AlreadyInstalled  Outcome = "already_installed"
	NotInstalled      Outcome = "not_installed"
	Skipped           Outcome = "skipped"
	ResolutionFailure Outcome = "resolution_failure"
	ExecutionFailure  Outcome = "execution_failure"
)

// Result describes one application of a batch.
type Result struct {
	App       string
	Outcome   Outcome
	Selection *Selection
	Duration  time.Duration
	Err       error
}

// Report collects the results of a batch in processing order.
type Report struct {
	Results []Result
}

// Count returns how many applications ended with o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any application failed to resolve or execute.
func (r Report) Failed() bool {
	return r.Count(ResolutionFailure)+r.Count(ExecutionFailure) > 0
}

// Engine processes application batches sequentially. A failure never stops the batch.
type Engine struct {
	Registry *pkgmgr.Registry
	Shell    *shell.Runner
	Confirm  pkgmgr.Confirmer
	Log      *logger.Logger
	System   system.Info
	Auto     bool // skip confirmation prompts
	DryRun   bool
	LookPath func(string) (string, error)
}

// NewEngine wires an engine around a registry; the registry's runner and system are reused.
func NewEngine(reg *pkgmgr.Registry, confirm pkgmgr.Confirmer, log *logger.Logger, auto, dryRun bool) *Engine {
	return &Engine{
		Registry: reg,
		Shell:    reg.Runner,
		Confirm:  confirm,
		Log:      log,
		System:   reg.System,
		Auto:     auto,
		DryRun:   dryRun,
		LookPath: exec.LookPath,
	}
}

func (e *Engine) runner(app model.Application, sel Selection) *Runner {
	return &Runner{App: app, Method: sel, DryRun: e.DryRun, Shell: e.Shell, Registry: e.Registry, Log: e.Log}
}

// PrepareManagers makes sure every package manager the batch will use is available, offering
// to bootstrap the ones this tool can install. It returns the managers that are not usable.
func (e *Engine) PrepareManagers(apps []model.Application) []pkgmgr.Manager {
	seen := map[pkgmgr.Manager]bool{}
	var missing []pkgmgr.Manager
	for _, app := range apps {
		sel, err := Resolve(app, e.System)
		if err != nil || sel.Method.PackageManager == "" || sel.Method.HasInstallSteps() {
			continue
		}
		pm := sel.Method.PackageManager
		if seen[pm] {
			continue
		}
		seen[pm] = true
		if !e.Registry.CheckInstall(pm, e.DryRun) {
			missing = append(missing, pm)
		}
	}
	return missing
}

// Install installs every application in order.
func (e *Engine) Install(apps []model.Application) Report {
	e.Log.Debug("[DEBUG] Install: %d application(s) on %s/%s, dry run %v\n", len(apps), e.System.OS, e.System.Distro, e.DryRun)
	unusable := map[pkgmgr.Manager]bool{}
	if missing := e.PrepareManagers(apps); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			unusable[m] = true
			names[i] = m.Name()
		}
		e.Log.Warn("[WARN] Package managers not available: %s\n", strings.Join(names, ", "))
	}

	var report Report
	for _, app := range apps {
		res := e.installOne(app, unusable)
		report.Results = append(report.Results, res)
		e.record("install", res)
	}
	return report
}

// installOne installs app. Applications whose selected manager is in unusable are skipped.
func (e *Engine) installOne(app model.Application, unusable map[pkgmgr.Manager]bool) Result {
	res := Result{App: app.Name}
	if IsInstalled(app, e.LookPath) {
		e.Log.Info("[INFO] "+messages.AlreadyInstalledFmt+"\n", app.Name)
		res.Outcome = AlreadyInstalled
		return res
	}
	if !e.Auto && !e.Confirm.Confirm(fmt.Sprintf(messages.ConfirmInstallFmt, app.Name), true) {
		e.Log.Info("[INFO] "+messages.SkippedByUserFmt+"\n", app.Name)
		res.Outcome = Skipped
		return res
	}

	sel, err := Resolve(app, e.System)
	if err != nil {
		e.Log.Warn("[WARN] "+messages.NoInstallMethodFmt+"\n", app.Name)
		res.Outcome, res.Err = ResolutionFailure, err
		return res
	}
	res.Selection = &sel
	e.Log.Debug("[DEBUG] %s: using version %d method %d (%s)\n", app.Name, sel.Version, sel.Index, describe(sel.Method))

	if pm := sel.Method.PackageManager; !sel.Method.HasInstallSteps() && unusable[pm] {
		e.Log.Warn("[WARN] "+messages.ManagerUnusableFmt+"\n", app.Name, pm)
		res.Outcome, res.Err = Skipped, fmt.Errorf("%w: %s", pkgmgr.ErrNotAvailable, pm)
		return res
	}

	res.Duration, err = e.runner(app, sel).RunInstall()
	if err != nil {
		e.Log.Warn("[WARN] Failed to install %s: %v\n", app.Name, err)
		res.Outcome, res.Err = ExecutionFailure, err
		return res
	}
	res.Outcome = Installed
	return res
}

// Uninstall removes every application in order. Applications whose check command does not
// resolve are skipped as not installed.
func (e *Engine) Uninstall(apps []model.Application) Report {
	var report Report
	for _, app := range apps {
		res := e.uninstallOne(app)
		report.Results = append(report.Results, res)
		e.record("uninstall", res)
	}
	return report
}

func (e *Engine) uninstallOne(app model.Application) Result {
	res := Result{App: app.Name}
	if !IsInstalled(app, e.LookPath) {
		e.Log.Info("[INFO] Skipping %s: not installed\n", app.Name)
		res.Outcome = NotInstalled
		return res
	}
	if !e.Auto && !e.Confirm.Confirm(fmt.Sprintf(messages.ConfirmUninstallFmt, app.Name), false) {
		e.Log.Info("[INFO] "+messages.SkippedByUserFmt+"\n", app.Name)
		res.Outcome = Skipped
		return res
	}

	sel, err := Resolve(app, e.System)
	if err != nil {
		e.Log.Warn("[WARN] No valid uninstall method found for %s\n", app.Name)
		res.Outcome, res.Err = ResolutionFailure, err
		return res
	}
	res.Selection = &sel

	res.Duration, err = e.runner(app, sel).RunUninstall()
	if err != nil {
		e.Log.Warn("[WARN] Failed to uninstall %s: %v\n", app.Name, err)
		res.Outcome, res.Err = ExecutionFailure, err
		return res
	}
	res.Outcome = Uninstalled
	return res
}

func (e *Engine) record(action string, res Result) {
	entry := logger.Entry{Level: logger.LevelInfo, Action: action, App: res.App, Status: string(res.Outcome)}
	switch {
	case errors.Is(res.Err, ErrResolution), res.Outcome == Skipped && res.Err != nil:
		entry.Level = logger.LevelWarn
	case res.Err != nil:
		entry.Level = logger.LevelError
	}
	if e.DryRun {
		entry.Source = "dry-run"
	}
	if res.Duration > 0 {
		entry = entry.WithDuration(res.Duration)
	}
	e.Log.Event(entry)
}

func describe(m model.InstallMethod) string {
	switch {
	case m.HasInstallSteps():
		return "steps"
	case m.HasPackage():
		return fmt.Sprintf("%s %s", m.PackageManager, m.PackageName)
	}
	return "nothing to run"
}
