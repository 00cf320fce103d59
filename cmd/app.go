package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/catalog"
	"machine-bootstrap/internal/installer"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/prompt"
	"machine-bootstrap/internal/validate"
)

var (
	serverOnly    bool
	appCategories categoryList
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Install or uninstall applications",
}

var appInstallCmd = &cobra.Command{
	Use:   "install [ids...]",
	Short: "Install applications by id, or choose from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := chooseApplications(args, "Applications to install")
		if err != nil {
			return err
		}
		report := newEngine().Install(apps)
		return summarize("install", report)
	},
}

var appUninstallCmd = &cobra.Command{
	Use:   "uninstall [ids...]",
	Short: "Uninstall applications by id, or choose from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := chooseApplications(args, "Applications to uninstall")
		if err != nil {
			return err
		}
		report := newEngine().Uninstall(apps)
		return summarize("uninstall", report)
	},
}

func newEngine() *installer.Engine {
	return installer.NewEngine(env.Registry, env.Prompt, env.Log, assumeYes, dryRun)
}

// loadCatalog validates the user's applications file, when there is one, and merges it with
// the built-in applications.
func loadCatalog() ([]model.Application, error) {
	path := env.Settings.ApplicationsFile
	if _, err := os.Stat(path); err == nil {
		if !validate.New(env.Log).Validate(path, validate.Applications) {
			return nil, fmt.Errorf("fix %s before continuing (see `config validate`)", path)
		}
	}
	return catalog.Load(path)
}

// chooseApplications resolves ids against the filtered catalog. Without ids the user picks;
// automatic mode takes every application that matches the filters.
func chooseApplications(ids []string, title string) ([]model.Application, error) {
	all, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	apps := catalog.Filter(all, env.System, serverOnly, appCategories)
	if len(apps) == 0 {
		return nil, errors.New("no applications match this system and filters")
	}

	if len(ids) > 0 {
		found, unknown := catalog.Select(apps, ids)
		for _, u := range unknown {
			env.Log.Warn("[WARN] Unknown or unsupported application: %s\n", u)
		}
		return found, nil
	}
	if assumeYes {
		return apps, nil
	}

	names := make([]string, len(apps))
	for i, a := range apps {
		names[i] = a.EffectiveID()
	}
	picked, err := env.Prompt.MultiSelect(title, names)
	if errors.Is(err, prompt.ErrNotInteractive) {
		return nil, errors.New("no terminal: pass application ids or --yes")
	}
	if err != nil {
		return nil, err
	}
	found, _ := catalog.Select(apps, picked)
	return found, nil
}

func summarize(action string, r installer.Report) error {
	for _, res := range r.Results {
		env.Log.Debug("[DEBUG] %s %s: %s\n", action, res.App, res.Outcome)
	}
	done := r.Count(installer.Installed) + r.Count(installer.Uninstalled)
	env.Log.Info("[INFO] %s: %d done, %d skipped, %d without a matching method, %d failed\n", action, done,
		r.Count(installer.Skipped)+r.Count(installer.AlreadyInstalled)+r.Count(installer.NotInstalled),
		r.Count(installer.ResolutionFailure), r.Count(installer.ExecutionFailure))
	if r.Count(installer.ExecutionFailure) > 0 {
		return fmt.Errorf("%s failed for %d application(s)", action, r.Count(installer.ExecutionFailure))
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{appInstallCmd, appUninstallCmd} {
		c.Flags().BoolVar(&serverOnly, "server", false, "Only server compatible applications")
		c.Flags().Var(&appCategories, "category", "Comma separated categories to include")
	}
	appCmd.AddCommand(appInstallCmd, appUninstallCmd)
	rootCmd.AddCommand(appCmd)
}
