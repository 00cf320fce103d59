package installer

import (
	"errors"
	"fmt"
	"time"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/pkgmgr"
	"machine-bootstrap/internal/shell"
)

// Runner executes one resolved method for one application.
type Runner struct {
	App    model.Application
	Method Selection
	DryRun bool

	Shell    *shell.Runner
	Registry *pkgmgr.Registry
	Log      *logger.Logger
}

// RunInstall runs preinstall steps, then either the install steps or the package manager,
// then postinstall steps. A failing step is reported and the remaining steps still run; the
// returned error joins every failure.
func (r *Runner) RunInstall() (time.Duration, error) {
	m := r.Method.Method
	r.Log.Info("[INFO] Installing %s...\n", r.App.Name)
	start := time.Now()

	var errs []error
	var steps model.InstallSteps
	if m.Steps != nil {
		steps = *m.Steps
	}

	errs = append(errs, r.steps(steps.PreInstall)...)
	switch {
	case m.HasInstallSteps():
		errs = append(errs, r.steps(steps.Install)...)
	case m.HasPackage():
		errs = append(errs, r.dependencies()...)
		if _, err := r.Registry.Install(m.PackageManager, m.PackageName, pkgmgr.Options{Cask: m.IsCask, DryRun: r.DryRun}); err != nil {
			errs = append(errs, err)
		}
	default:
		r.Log.Error("[ERROR] "+messages.MethodNotExecutableFmt+"\n", r.App.Name)
		return time.Since(start), fmt.Errorf("%w: %s", ErrNotExecutable, r.App.Name)
	}
	errs = append(errs, r.steps(steps.PostInstall)...)

	elapsed := time.Since(start)
	if err := errors.Join(errs...); err != nil {
		return elapsed, err
	}
	r.Log.Info("[INFO] Installed %s in %.2fs\n", r.App.Name, elapsed.Seconds())
	return elapsed, nil
}

// RunUninstall runs the uninstall steps, or the package manager when there are none, then the
// postuninstall steps.
func (r *Runner) RunUninstall() (time.Duration, error) {
	m := r.Method.Method
	r.Log.Info("[INFO] Uninstalling %s...\n", r.App.Name)
	start := time.Now()

	var errs []error
	var steps model.InstallSteps
	if m.Steps != nil {
		steps = *m.Steps
	}

	switch {
	case m.HasUninstallSteps():
		errs = append(errs, r.steps(steps.Uninstall)...)
	case m.HasPackage():
		if _, err := r.Registry.Uninstall(m.PackageManager, m.PackageName, pkgmgr.Options{DryRun: r.DryRun}); err != nil {
			errs = append(errs, err)
		}
	default:
		r.Log.Error("[ERROR] No uninstall steps or package manager for %s\n", r.App.Name)
		return time.Since(start), fmt.Errorf("%w: %s", ErrNotExecutable, r.App.Name)
	}
	errs = append(errs, r.steps(steps.PostUninstall)...)

	elapsed := time.Since(start)
	if err := errors.Join(errs...); err != nil {
		return elapsed, err
	}
	r.Log.Info("[INFO] Uninstalled %s in %.2fs\n", r.App.Name, elapsed.Seconds())
	return elapsed, nil
}

// steps runs each line independently and returns the failures.
func (r *Runner) steps(lines []string) []error {
	var errs []error
	for _, line := range lines {
		if _, err := r.Shell.RunScript(line, false, r.DryRun); err != nil {
			r.Log.Warn("[WARN] "+messages.StepFailedFmt+"\n", line, r.App.Name, err)
			errs = append(errs, err)
		}
	}
	return errs
}

// dependencies installs the selected version's extra packages with the method's manager.
func (r *Runner) dependencies() []error {
	if r.Method.Version >= len(r.App.Versions) {
		return nil
	}
	var errs []error
	pm := r.Method.Method.PackageManager
	for _, dep := range r.App.Versions[r.Method.Version].Dependencies {
		r.Log.Debug("[DEBUG] Installing dependency %s of %s via %s\n", dep, r.App.Name, pm)
		if _, err := r.Registry.Install(pm, dep, pkgmgr.Options{DryRun: r.DryRun}); err != nil {
			r.Log.Warn("[WARN] Failed to install dependency %s: %v\n", dep, err)
			errs = append(errs, err)
		}
	}
	return errs
}
