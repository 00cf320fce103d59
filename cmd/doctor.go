package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/catalog"
	"machine-bootstrap/internal/pkgmgr"
	"machine-bootstrap/internal/validate"
	"machine-bootstrap/internal/vps"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check settings, configuration files and package managers",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := env.Log
		problems := 0

		if doctorFix {
			if _, changed, err := env.Paths.Fix(env.SettingsFile); err != nil {
				log.Error("[ERROR] Failed to fix settings: %v\n", err)
				problems++
			} else if len(changed) > 0 {
				log.Info("[INFO] Fixed settings: %s\n", strings.Join(changed, ", "))
				if env.Settings, err = env.Paths.Load(env.SettingsFile); err != nil {
					return err
				}
			}
			if err := os.MkdirAll(env.Settings.LogDirectory, 0755); err != nil {
				log.Error("[ERROR] Failed to create %s: %v\n", env.Settings.LogDirectory, err)
				problems++
			}
			// Loading rewrites the VPS file with generated and deduplicated ids, except in a dry run.
			if _, err := vps.Load(env.Settings.VPSFile, log, dryRun); err != nil {
				log.Error("[ERROR] %v\n", err)
				problems++
			}
		}

		log.Info("[INFO] System: %s (%s, %s)\n", env.System.Distro, env.System.OS, env.System.Arch)
		log.Info("[INFO] Settings: %s\n", env.SettingsFile)

		p := validate.New(log)
		files := []struct {
			path string
			kind validate.Kind
		}{
			{env.SettingsFile, validate.Settings},
			{env.Settings.ApplicationsFile, validate.Applications},
			{env.Settings.VPSFile, validate.VPS},
		}
		for _, f := range files {
			if _, err := os.Stat(f.path); err != nil {
				log.Warn("[WARN] %s file %s does not exist\n", f.kind, f.path)
				continue
			}
			if !p.Validate(f.path, f.kind) {
				problems++
			}
		}

		var present, missing []string
		for _, m := range pkgmgr.SupportedOn(env.System.Distro) {
			if env.Registry.CheckInstalled(m) {
				present = append(present, m.Name())
			} else {
				missing = append(missing, m.Name())
			}
		}
		log.Info("[INFO] Package managers available: %s\n", orNone(present))
		if len(missing) > 0 {
			log.Warn("[WARN] Package managers not installed: %s\n", strings.Join(missing, ", "))
		}
		if len(present) == 0 {
			problems++
		}

		if apps, err := catalog.Load(env.Settings.ApplicationsFile); err != nil {
			log.Error("[ERROR] %v\n", err)
			problems++
		} else {
			log.Info("[INFO] Applications: %d known, %d for this system\n", len(apps),
				len(catalog.Filter(apps, env.System, false, nil)))
		}

		if problems > 0 {
			return fmt.Errorf("doctor found %d problem(s)", problems)
		}
		log.Info("[INFO] Everything looks fine.\n")
		return nil
	},
}

func orNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair settings and configuration files first")
	rootCmd.AddCommand(doctorCmd)
}
