package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/fonts"
)

var allFonts bool

func newFontManager() (*fonts.Manager, error) {
	dir, err := fonts.Dir(env.System)
	if err != nil {
		return nil, err
	}
	return fonts.NewManager(dir, env.StatePath(), env.Shell, env.Log, env.System, dryRun), nil
}

// fontNames returns the fonts named in args, every font with --all, or asks. Names that are
// not known fonts are dropped with a warning.
func fontNames(m *fonts.Manager, args []string, installed bool) ([]string, error) {
	if allFonts {
		var names []string
		for _, s := range m.List() {
			if s.Installed == installed {
				names = append(names, s.Name)
			}
		}
		return names, nil
	}
	if len(args) > 0 {
		var names []string
		for _, a := range args {
			if !fonts.Valid(a) {
				env.Log.Warn("[WARN] Unknown font %s (see `font list`)\n", a)
				continue
			}
			names = append(names, a)
		}
		return names, nil
	}

	var options []string
	for _, s := range m.List() {
		if s.Installed == installed {
			options = append(options, s.Name)
		}
	}
	if len(options) == 0 {
		return nil, nil
	}
	return env.Prompt.MultiSelect("Fonts", options)
}

var fontCmd = &cobra.Command{
	Use:   "font",
	Short: "Manage Nerd Fonts",
}

var fontInstallCmd = &cobra.Command{
	Use:   "install [names...]",
	Short: "Install Nerd Fonts from the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newFontManager()
		if err != nil {
			return err
		}
		names, err := fontNames(m, args, false)
		if err != nil {
			return err
		}
		var errs []error
		installed := 0
		for _, n := range names {
			if err := m.Install(n); err != nil {
				if !errors.Is(err, fonts.ErrAlreadyInstalled) {
					errs = append(errs, err)
				}
				continue
			}
			installed++
		}
		if installed > 0 {
			if err := m.Refresh(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

var fontUninstallCmd = &cobra.Command{
	Use:   "uninstall [names...]",
	Short: "Remove installed Nerd Fonts",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newFontManager()
		if err != nil {
			return err
		}
		names, err := fontNames(m, args, true)
		if err != nil {
			return err
		}
		var errs []error
		for _, n := range names {
			if !env.Prompt.Confirm(fmt.Sprintf("Uninstall font %s?", n), true) {
				continue
			}
			if err := m.Uninstall(n); err != nil {
				errs = append(errs, err)
			}
		}
		if len(names) > 0 {
			if err := m.Refresh(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

var fontListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every Nerd Font and whether it is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newFontManager()
		if err != nil {
			return err
		}
		t := newTable("Font", "Installed")
		for _, s := range m.List() {
			mark := ""
			if s.Installed {
				mark = "yes"
			}
			t.Row(s.Name, mark)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		fmt.Fprintf(cmd.OutOrStdout(), "Font directory: %s\n", m.Dir)
		return nil
	},
}

var fontUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reinstall every installed font from the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newFontManager()
		if err != nil {
			return err
		}
		updated, err := m.Update()
		if len(updated) > 0 {
			if rerr := m.Refresh(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
		return err
	},
}

var fontRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the font cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newFontManager()
		if err != nil {
			return err
		}
		return m.Refresh()
	},
}

func init() {
	fontInstallCmd.Flags().BoolVar(&allFonts, "all", false, "Every font that is not installed yet")
	fontUninstallCmd.Flags().BoolVar(&allFonts, "all", false, "Every installed font")
	fontCmd.AddCommand(fontInstallCmd, fontUninstallCmd, fontListCmd, fontUpdateCmd, fontRefreshCmd)
	rootCmd.AddCommand(fontCmd)
}
