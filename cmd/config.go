package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/config"
	"machine-bootstrap/internal/format"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/validate"
)

var kindFlag string

// kindOf honours --kind, otherwise guesses from the file name.
func kindOf(path string) (validate.Kind, error) {
	if kindFlag != "" {
		return validate.ParseKind(kindFlag)
	}
	return validate.KindFor(path), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate, install and repair configuration files",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate application, VPS or settings files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := validate.New(env.Log)
		failed := 0
		for _, path := range args {
			k, err := kindOf(path)
			if err != nil {
				return err
			}
			if !p.Validate(path, k) {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
		}
		return nil
	},
}

var configOverrideCmd = &cobra.Command{
	Use:   "override <file>",
	Short: "Validate a file and install it as the configured file of its kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		k, err := kindOf(src)
		if err != nil {
			return err
		}
		if !validate.New(env.Log).Validate(src, k) {
			return fmt.Errorf("%s is not a valid %s file", src, k)
		}

		var dst string
		var doc any
		switch k {
		case validate.Applications:
			dst, doc = env.Settings.ApplicationsFile, &model.ApplicationList{}
		case validate.VPS:
			dst, doc = env.Settings.VPSFile, &model.VPSList{}
		default:
			dst, doc = env.SettingsFile, &config.Settings{}
		}

		if _, err := os.Stat(dst); err == nil && !env.Prompt.Confirm(fmt.Sprintf("Replace %s?", dst), false) {
			env.Log.Warn("[WARN] Override cancelled\n")
			return nil
		}
		if dryRun {
			env.Log.Info("[INFO] [Dry Run] Would replace %s with %s\n", dst, src)
			return nil
		}
		if err := config.ReplaceDocument(src, dst, doc); err != nil {
			return err
		}
		env.Log.Info("[INFO] Installed %s as %s\n", src, dst)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the settings file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !env.Prompt.Confirm(fmt.Sprintf("Reset %s to defaults?", env.SettingsFile), false) {
			return nil
		}
		if _, err := env.Paths.Reset(env.SettingsFile); err != nil {
			return err
		}
		env.Log.Info("[INFO] Settings reset: %s\n", env.SettingsFile)
		return nil
	},
}

var configFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Fill missing settings with defaults and expand ~ in paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, changed, err := env.Paths.Fix(env.SettingsFile)
		if err != nil {
			return err
		}
		if len(changed) == 0 {
			env.Log.Info("[INFO] Nothing to fix in %s\n", env.SettingsFile)
			return nil
		}
		for _, field := range changed {
			env.Log.Info("[INFO] Fixed %s\n", field)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := format.Detect(env.SettingsFile)
		if err != nil {
			f = format.YAML
		}
		out, err := format.Encode(f, env.Settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", env.SettingsFile, out)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{configValidateCmd, configOverrideCmd} {
		c.Flags().StringVar(&kindFlag, "kind", "", "Document kind: applications, vps or settings (default: from the file name)")
	}
	configCmd.AddCommand(configValidateCmd, configOverrideCmd, configResetCmd, configFixCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
