package model

import "machine-bootstrap/internal/system"

// SystemSupport names a set of OS families an application runs on.
type SystemSupport string

const (
	Cross   SystemSupport = "Cross"
	MacLin  SystemSupport = "MacLin"
	LinWin  SystemSupport = "LinWin"
	WinMac  SystemSupport = "WinMac"
	Linux   SystemSupport = "Linux"
	Windows SystemSupport = "Windows"
	MacOS   SystemSupport = "MacOS"
)

var supportFlags = map[SystemSupport]system.OSFlag{
	Cross:   system.FlagAll,
	MacLin:  system.FlagMacOS | system.FlagLinux,
	LinWin:  system.FlagLinux | system.FlagWindows,
	WinMac:  system.FlagWindows | system.FlagMacOS,
	Linux:   system.FlagLinux,
	Windows: system.FlagWindows,
	MacOS:   system.FlagMacOS,
}

// SystemSupportNames lists every tag, for schema enums.
func SystemSupportNames() []string {
	return []string{string(Cross), string(MacLin), string(LinWin), string(WinMac), string(Linux), string(Windows), string(MacOS)}
}

// Flags returns the OS bitmask for the tag; unknown tags map to no OS.
func (s SystemSupport) Flags() system.OSFlag {
	return supportFlags[s]
}
