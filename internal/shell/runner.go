package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"machine-bootstrap/internal/logger"
)

// ErrExecution marks a failed spawn or a non-zero exit.
var ErrExecution = errors.New("execution failed")

// ExitError carries the captured stderr of a failed command.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
	if e.Err != nil && e.Code < 0 {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExecution}
	}
	return []error{ErrExecution, e.Err}
}

// Result is what a command produced. Dry runs return a synthetic success.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	DryRun   bool
	Duration time.Duration
}

// SpawnFunc runs argv to completion and returns its captured output.
type SpawnFunc func(argv []string) (stdout, stderr []byte, code int, err error)

// Runner executes commands one at a time, blocking until each exits.
type Runner struct {
	Windows bool
	Out     io.Writer // dry-run and verbose output
	Log     *logger.Logger
	Verbose bool // echo captured stdout/stderr after live runs
	Spawn   SpawnFunc
}

// NewRunner returns a Runner that spawns real processes.
func NewRunner(log *logger.Logger, windows bool) *Runner {
	return &Runner{Windows: windows, Out: os.Stdout, Log: log, Spawn: execSpawn}
}

// Run executes c. With dryRun set it only prints the command line.
func (r *Runner) Run(c *Command, dryRun bool) (Result, error) {
	line := c.Line(r.Windows)
	if dryRun {
		fmt.Fprintf(r.Out, "[Dry Run] %s\n", line)
		return Result{Command: line, DryRun: true}, nil
	}

	argv := c.Argv(r.Windows)
	r.Log.Debug("[DEBUG] Running command: %s\n", strings.Join(argv, " "))

	start := time.Now()
	stdout, stderr, code, err := r.Spawn(argv)
	res := Result{
		Command:  line,
		Stdout:   string(stdout),
		Stderr:   string(stderr),
		ExitCode: code,
		Duration: time.Since(start),
	}
	if r.Verbose {
		if res.Stdout != "" {
			fmt.Fprint(r.Out, res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Fprint(r.Out, res.Stderr)
		}
	}
	if err != nil || code != 0 {
		r.Log.Debug("[DEBUG] Command failed (%d): %s\nOutput: %s\n", code, line, res.Stderr)
		return res, &ExitError{Command: line, Code: code, Stderr: res.Stderr, Err: err}
	}
	return res, nil
}

// RunScript runs an opaque shell command line.
func (r *Runner) RunScript(line string, sudo, dryRun bool) (Result, error) {
	return r.Run(Script(line).WithSudo(sudo), dryRun)
}

// Script wraps a command line so that it is interpreted by the platform shell:
// sh -c on POSIX systems, PowerShell on Windows.
func Script(line string) *Command {
	return &Command{script: line}
}

// Exists reports whether name resolves to an executable on PATH.
func Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func execSpawn(argv []string) ([]byte, []byte, int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
	}
	return stdout.Bytes(), stderr.Bytes(), -1, err
}
