package installer

import (
	"errors"
	"fmt"

	"github.com/google/shlex"

	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/system"
)

// ErrResolution means no install method of an application lists the current system.
var ErrResolution = errors.New("no install method matches this system")

// ErrNotExecutable means the selected method has nothing to run for the requested operation.
var ErrNotExecutable = errors.New("install method has nothing to execute")

// Selection is the method chosen for an application on one system.
type Selection struct {
	Version int // index into Application.Versions
	Index   int // index into Version.InstallMethods
	Method  model.InstallMethod
}

// Resolve walks versions and their methods in declared order and returns the first method
// whose os list names sys. Later methods are never considered once one matches.
func Resolve(app model.Application, sys system.Info) (Selection, error) {
	for vi, v := range app.Versions {
		for mi, m := range v.InstallMethods {
			if m.AppliesTo(sys) {
				return Selection{Version: vi, Index: mi, Method: m}, nil
			}
		}
	}
	return Selection{}, fmt.Errorf("%w: "+messages.NoInstallMethodFmt, ErrResolution, app.Name)
}

// IsInstalled runs no command: it resolves the first word of the first version's check_command
// on PATH. Applications without a check command are reported as not installed.
func IsInstalled(app model.Application, lookPath func(string) (string, error)) bool {
	line := app.CheckCommand()
	if line == "" {
		return false
	}
	argv, err := shlex.Split(line)
	if err != nil || len(argv) == 0 {
		return false
	}
	_, err = lookPath(argv[0])
	return err == nil
}
