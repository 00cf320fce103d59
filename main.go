package main

import (
	"machine-bootstrap/cmd" // CLI commands and execution logic
)

// main delegates to cmd.Execute, which parses arguments and runs the selected command.
//
// machine-bootstrap installs and removes applications through whichever install method fits the
// current system, manages Nerd Fonts, keeps VPS connection profiles, and validates its JSON,
// YAML and XML configuration files.
func main() {
	cmd.Execute()
}
