package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/pkgmgr"
)

var pmCmd = &cobra.Command{
	Use:   "pm",
	Short: "Inspect, install and update package managers",
}

// managersFrom parses args, defaulting to every manager supported on this system.
func managersFrom(args []string) ([]pkgmgr.Manager, error) {
	if len(args) == 0 {
		return pkgmgr.SupportedOn(env.System.Distro), nil
	}
	var out []pkgmgr.Manager
	for _, a := range args {
		m, ok := pkgmgr.Parse(a)
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", pkgmgr.ErrUnknownManager, a, strings.Join(pkgmgr.Names(), ", "))
		}
		out = append(out, m)
	}
	return out, nil
}

var pmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the package managers of this system",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := newTable("Manager", "Installed", "Sudo", "Bootstrappable")
		yes := func(b bool) string {
			if b {
				return "yes"
			}
			return ""
		}
		for _, m := range pkgmgr.SupportedOn(env.System.Distro) {
			t.Row(m.Name(), yes(env.Registry.CheckInstalled(m)), yes(m.RequiresSudo()), yes(m.Convenience()))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var pmInstallCmd = &cobra.Command{
	Use:   "install <manager>...",
	Short: "Install package managers that this tool can bootstrap",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		managers, err := managersFrom(args)
		if err != nil {
			return err
		}
		var failed []string
		for _, m := range managers {
			if !env.Registry.CheckInstall(m, dryRun) {
				failed = append(failed, m.Name())
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%w: %s", pkgmgr.ErrNotAvailable, strings.Join(failed, ", "))
		}
		return nil
	},
}

var pmUpdateCmd = &cobra.Command{
	Use:   "update [manager...]",
	Short: "Upgrade the packages of installed managers",
	RunE: func(cmd *cobra.Command, args []string) error {
		managers, err := managersFrom(args)
		if err != nil {
			return err
		}
		var errs []error
		for _, m := range managers {
			if !env.Registry.CheckInstalled(m) {
				env.Log.Debug("[DEBUG] Skipping %s: not installed\n", m)
				continue
			}
			env.Log.Info("[INFO] Updating %s\n", m)
			if _, err := env.Registry.Update(m, pkgmgr.Options{DryRun: dryRun}); err != nil {
				env.Log.Error("[ERROR] Failed to update %s: %v\n", m, err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func init() {
	pmCmd.AddCommand(pmListCmd, pmInstallCmd, pmUpdateCmd)
	rootCmd.AddCommand(pmCmd)
}
