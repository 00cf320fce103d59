package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/logger"
)

var (
	logsTail     int
	logsLevel    string
	logsDate     string
	logsJSONOnly bool
	logsPath     bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the structured event log of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if logsDate != "" {
			d, err := time.Parse("2006-01-02", logsDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", logsDate)
			}
			day = d
		}
		switch logsLevel {
		case "", logger.LevelError, logger.LevelWarn, logger.LevelInfo:
		default:
			return fmt.Errorf("invalid --level %q, expected error, warn or info", logsLevel)
		}

		path := env.Settings.LogFile(day)
		if logsPath {
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}

		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			env.Log.Info("[INFO] No log for %s (%s)\n", day.Format("2006-01-02"), path)
			return nil
		}
		if err != nil {
			return err
		}
		defer f.Close()

		entries, err := logger.ReadEvents(f, logsLevel, logsTail)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		for _, e := range entries {
			if logsJSONOnly {
				line, err := json.Marshal(e)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(line))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVar(&logsTail, "tail", 0, "Only the last N entries")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Minimum severity: error, warn or info")
	logsCmd.Flags().StringVar(&logsDate, "date", "", "Day to show, YYYY-MM-DD (default: today)")
	logsCmd.Flags().BoolVar(&logsJSONOnly, "json-only", false, "Print raw JSON lines")
	logsCmd.Flags().BoolVar(&logsPath, "path", false, "Print the log file path and exit")
	rootCmd.AddCommand(logsCmd)
}
