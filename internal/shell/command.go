// Package shell builds and runs external commands, optionally behind sudo, with a dry-run mode
// that prints instead of spawning.
package shell

import (
	"al.essio.dev/pkg/shellescape"
)

// Command is one external program invocation, or a script line handed to the platform shell.
type Command struct {
	Name string
	Args []string
	Sudo bool

	script string
}

// New starts building a command for the given program.
func New(name string) *Command {
	return &Command{Name: name}
}

// WithArgs appends arguments in order.
func (c *Command) WithArgs(args ...string) *Command {
	c.Args = append(c.Args, args...)
	return c
}

// WithSudo toggles the privilege-elevation prefix.
func (c *Command) WithSudo(enable bool) *Command {
	c.Sudo = enable
	return c
}

// Argv returns the full argument vector for the target platform. Elevation is implicit on
// Windows, where programs are routed through cmd /C instead.
func (c *Command) Argv(windows bool) []string {
	var argv []string
	switch {
	case c.script != "" && windows:
		return []string{"powershell", "-NoProfile", "-Command", c.script}
	case c.script != "":
		argv = []string{"sh", "-c", c.script}
	case windows:
		return append([]string{"cmd", "/C", c.Name}, c.Args...)
	default:
		argv = append([]string{c.Name}, c.Args...)
	}
	if c.Sudo {
		argv = append([]string{"sudo"}, argv...)
	}
	return argv
}

// Line is the command line as a user would type it. Script lines are shown verbatim.
func (c *Command) Line(windows bool) string {
	prefix := ""
	if c.Sudo && !windows {
		prefix = "sudo "
	}
	if c.script != "" {
		return prefix + c.script
	}
	return prefix + shellescape.QuoteCommand(append([]string{c.Name}, c.Args...))
}

// String renders the command for a POSIX shell.
func (c *Command) String() string {
	return c.Line(false)
}
