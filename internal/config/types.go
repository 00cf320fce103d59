package config

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"machine-bootstrap/internal/logger"
)

// AppName names the per-user configuration directory.
const AppName = "machine-bootstrap"

// LogOutput selects where structured log events go.
type LogOutput string

const (
	LogPrimary LogOutput = "primary" // daily file under LogDirectory
	LogStdout  LogOutput = "stdout"
)

// Settings is the program's own settings file.
// - ApplicationsFile: user applications list, merged with the built-in catalog.
// - VPSFile: VPS connection profiles.
// - LogDirectory: where daily JSON event logs are written.
// - LogOutput: "primary" (file) or "stdout".
type Settings struct {
	XMLName          xml.Name  `json:"-" yaml:"-" xml:"config"`
	ApplicationsFile string    `json:"applications_file,omitempty" yaml:"applications_file,omitempty" xml:"applications_file,omitempty"`
	VPSFile          string    `json:"vps_file,omitempty" yaml:"vps_file,omitempty" xml:"vps_file,omitempty"`
	LogDirectory     string    `json:"log_directory,omitempty" yaml:"log_directory,omitempty" xml:"log_directory,omitempty"`
	LogOutput        LogOutput `json:"log_output,omitempty" yaml:"log_output,omitempty" xml:"log_output,omitempty"`
}

// LogOutputNames lists the accepted LogOutput values, for schema enums.
func LogOutputNames() []string {
	return []string{string(LogPrimary), string(LogStdout)}
}

// LogFile is the event log for the given day.
func (s Settings) LogFile(day time.Time) string {
	return filepath.Join(s.LogDirectory, logger.FileName(day))
}

// EventSink builds the structured log sink these settings ask for.
func (s Settings) EventSink() *logger.EventSink {
	if s.LogOutput == LogStdout {
		return logger.NewWriterSink(os.Stdout)
	}
	if s.LogDirectory == "" {
		return nil
	}
	return logger.NewFileSink(s.LogDirectory)
}
