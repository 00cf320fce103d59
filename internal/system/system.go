// Package system provides the read-only snapshot of the machine the CLI runs on.
package system

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"
)

// OSFlag is a bitmask of operating system families.
type OSFlag uint8

const (
	FlagLinux OSFlag = 1 << iota
	FlagWindows
	FlagMacOS

	FlagNone OSFlag = 0
	FlagAll         = FlagLinux | FlagWindows | FlagMacOS
)

// Normalized OS family names, as written in install method `os` lists.
const (
	Linux   = "Linux"
	MacOS   = "Macos"
	Windows = "Windows"
)

// Info is computed once per invocation and never mutated afterwards.
type Info struct {
	OS     string // normalized family: Linux, Macos or Windows
	Distro string // distribution name on Linux, e.g. "Ubuntu"; equals OS elsewhere
	Arch   string
}

// Detect inspects the running machine.
func Detect() Info {
	info := Info{Arch: runtime.GOARCH}
	switch runtime.GOOS {
	case "darwin":
		info.OS, info.Distro = MacOS, MacOS
	case "windows":
		info.OS, info.Distro = Windows, Windows
	default:
		info.OS = Linux
		info.Distro = Linux
		if f, err := os.Open("/etc/os-release"); err == nil {
			defer f.Close()
			if d := distroFromOSRelease(f); d != "" {
				info.Distro = d
			}
		}
	}
	return info
}

// For builds an Info for a given OS identifier without touching the machine.
// Distribution names such as "Ubuntu" normalize to the Linux family.
func For(name string) Info {
	if fam := Family(name); fam != "" {
		return Info{OS: fam, Distro: canonicalDistro(name), Arch: runtime.GOARCH}
	}
	return Info{OS: name, Distro: name, Arch: runtime.GOARCH}
}

// Flag returns the bitmask bit for the current family.
func (i Info) Flag() OSFlag {
	switch Family(i.OS) {
	case Linux:
		return FlagLinux
	case MacOS:
		return FlagMacOS
	case Windows:
		return FlagWindows
	}
	return FlagNone
}

// Matches reports whether name refers to this system, either by family or by distribution.
func (i Info) Matches(name string) bool {
	return strings.EqualFold(name, i.OS) || (i.Distro != "" && strings.EqualFold(name, i.Distro))
}

// IsWindows is a convenience for platform specific command building.
func (i Info) IsWindows() bool {
	return i.OS == Windows
}

var linuxDistros = map[string]string{
	"ubuntu":      "Ubuntu",
	"debian":      "Debian",
	"pop":         "Pop",
	"fedora":      "Fedora",
	"rhel":        "Redhat",
	"redhat":      "Redhat",
	"centos":      "CentOS",
	"alpine":      "Alpine",
	"arch":        "Arch",
	"manjaro":     "Manjaro",
	"endeavouros": "EndeavourOS",
	"opensuse":    "openSUSE",
	"suse":        "SUSE",
	"sles":        "SUSE",
	"gentoo":      "Gentoo",
	"linux":       "Linux",
}

// Family maps an OS or distribution name to its normalized family, or "" when unknown.
func Family(name string) string {
	lower := strings.ToLower(name)
	switch lower {
	case "macos", "mac os", "darwin", "osx":
		return MacOS
	case "windows":
		return Windows
	}
	if _, ok := linuxDistros[lower]; ok {
		return Linux
	}
	if strings.HasPrefix(lower, "opensuse") {
		return Linux
	}
	return ""
}

func canonicalDistro(name string) string {
	lower := strings.ToLower(name)
	if d, ok := linuxDistros[lower]; ok {
		return d
	}
	if strings.HasPrefix(lower, "opensuse") {
		return "openSUSE"
	}
	if fam := Family(name); fam != "" && fam != Linux {
		return fam
	}
	return name
}

// distroFromOSRelease reads the ID field of an os-release file.
func distroFromOSRelease(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "ID=") {
			continue
		}
		id := strings.Trim(strings.TrimPrefix(line, "ID="), `"'`)
		return canonicalDistro(id)
	}
	return ""
}
