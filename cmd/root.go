package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/config"
	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/pkgmgr"
	"machine-bootstrap/internal/prompt"
	"machine-bootstrap/internal/shell"
	"machine-bootstrap/internal/state"
	"machine-bootstrap/internal/system"
)

// Global flags.
var (
	debug        bool
	dryRun       bool
	assumeYes    bool
	settingsPath string
)

// environment is everything a subcommand needs, built once per invocation.
type environment struct {
	Paths        config.Paths
	SettingsFile string
	Settings     config.Settings
	Log          *logger.Logger
	System       system.Info
	Shell        *shell.Runner
	Prompt       prompt.Prompter
	Registry     *pkgmgr.Registry
}

// StatePath is kept next to the settings file.
func (e *environment) StatePath() string {
	return filepath.Join(filepath.Dir(e.SettingsFile), state.FileName)
}

var env *environment

// rootCmd is the base command for the CLI tool `machine-bootstrap`.
var rootCmd = &cobra.Command{
	Use:           config.AppName,
	Short:         "Bootstrap a machine: applications, fonts and VPS profiles",
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE loads the settings and wires the logger, shell runner and prompts
	// shared by every subcommand.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = newEnvironment()
		return err
	},
}

func newEnvironment() (*environment, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, err
	}
	file := settingsPath
	if file == "" {
		file = paths.SettingsFile()
	}
	if settingsPath != "" {
		paths.Dir = filepath.Dir(settingsPath)
	}

	bootLog := logger.New(logger.Options{Debug: debug})
	settings, err := paths.Load(file)
	if err != nil {
		bootLog.Warn("[WARN] Using default settings: %v\n", err)
		settings = paths.Defaults()
	}

	log := logger.New(logger.Options{Debug: debug, Sink: settings.EventSink()})
	sys := system.Detect()
	log.Debug("[DEBUG] Detected %s (%s/%s), settings %s\n", sys.Distro, sys.OS, sys.Arch, file)

	var p prompt.Prompter = prompt.NewHuh()
	if assumeYes {
		p = prompt.Auto{}
	}
	runner := shell.NewRunner(log, sys.IsWindows())
	runner.Verbose = debug

	return &environment{
		Paths:        paths,
		SettingsFile: file,
		Settings:     settings,
		Log:          log,
		System:       sys,
		Shell:        runner,
		Prompt:       p,
		Registry:     pkgmgr.NewRegistry(runner, p, log, sys),
	}, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print commands instead of running them")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every prompt (automatic mode)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "Path to the settings file")
}

// Execute runs the CLI and exits with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.New(logger.Options{}).Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
