// Package pkgmgr knows which package managers exist on which systems and how to drive them.
package pkgmgr

import (
	"strings"

	"machine-bootstrap/internal/system"
)

// Manager identifies a package manager by its canonical lowercase name.
type Manager string

const (
	Apt     Manager = "apt"
	Dnf     Manager = "dnf"
	Yum     Manager = "yum"
	Zypper  Manager = "zypper"
	Portage Manager = "portage"
	Apk     Manager = "apk"
	Pacman  Manager = "pacman"
	Yay     Manager = "yay"
	Nix     Manager = "nix"
	Flatpak Manager = "flatpak"
	Snap    Manager = "snap"
	Brew    Manager = "brew"
	Choco   Manager = "choco"
	Winget  Manager = "winget"
	Scoop   Manager = "scoop"
)

// Argument template placeholders.
const (
	pkgToken  = "{pkg}"
	caskToken = "{cask}"
)

// entry is everything the registry needs to know about one manager.
type entry struct {
	bin         string
	sudo        bool
	convenience bool // can bootstrap itself
	install     []string
	uninstall   []string
	update      []string
}

var table = map[Manager]entry{
	Apt:     {bin: "apt", sudo: true, install: []string{"install", pkgToken, "-y"}, uninstall: []string{"remove", pkgToken, "-y"}, update: []string{"upgrade", "-y"}},
	Dnf:     {bin: "dnf", sudo: true, install: []string{"install", pkgToken, "-y"}, uninstall: []string{"remove", pkgToken, "-y"}, update: []string{"upgrade", "-y"}},
	Yum:     {bin: "yum", sudo: false, install: []string{"install", pkgToken, "-y"}, uninstall: []string{"remove", pkgToken, "-y"}, update: []string{"update", "-y"}},
	Zypper:  {bin: "zypper", sudo: true, install: []string{"install", "-y", pkgToken}, uninstall: []string{"remove", "-y", pkgToken}, update: []string{"update", "-y"}},
	Portage: {bin: "emerge", sudo: true, install: []string{pkgToken}, uninstall: []string{"-C", pkgToken}, update: []string{"--sync"}},
	Apk:     {bin: "apk", sudo: true, install: []string{"add", pkgToken}, uninstall: []string{"del", pkgToken}, update: []string{"upgrade"}},
	Pacman:  {bin: "pacman", sudo: true, install: []string{"-S", pkgToken, "--noconfirm"}, uninstall: []string{"-R", pkgToken, "--noconfirm"}, update: []string{"-Syu", "--noconfirm"}},
	Yay:     {bin: "yay", sudo: true, convenience: true, install: []string{"-S", pkgToken, "--noconfirm"}, uninstall: []string{"-R", pkgToken, "--noconfirm"}, update: []string{"-Syu", "--noconfirm"}},
	Nix:     {bin: "nix-env", convenience: true},
	Flatpak: {bin: "flatpak", sudo: true, convenience: true, install: []string{"install", "flathub", pkgToken}, uninstall: []string{"uninstall", "-y", pkgToken}, update: []string{"update", "-y"}},
	Snap:    {bin: "snap", sudo: true, convenience: true, install: []string{"install", pkgToken}, uninstall: []string{"remove", pkgToken}, update: []string{"refresh"}},
	Brew:    {bin: "brew", convenience: true, install: []string{"install", caskToken, pkgToken}, uninstall: []string{"uninstall", pkgToken}, update: []string{"upgrade"}},
	Choco:   {bin: "choco", convenience: true, install: []string{"install", pkgToken, "-y"}, uninstall: []string{"uninstall", pkgToken, "-y"}, update: []string{"upgrade", "all", "-y"}},
	Winget:  {bin: "winget", install: []string{"install", pkgToken}, uninstall: []string{"uninstall", pkgToken}, update: []string{"upgrade", "--all"}},
	Scoop:   {bin: "scoop", convenience: true, install: []string{"install", pkgToken}, uninstall: []string{"uninstall", pkgToken}, update: []string{"update", "*"}},
}

// order is the declaration order, used for listings and schema enums.
var order = []Manager{Apt, Dnf, Yum, Zypper, Portage, Apk, Pacman, Yay, Nix, Flatpak, Snap, Brew, Choco, Winget, Scoop}

// All returns every known manager.
func All() []Manager {
	return append([]Manager(nil), order...)
}

// Names returns the canonical names of every known manager.
func Names() []string {
	names := make([]string, len(order))
	for i, m := range order {
		names[i] = string(m)
	}
	return names
}

// Parse looks up a manager by name, ignoring case.
func Parse(name string) (Manager, bool) {
	m := Manager(strings.ToLower(strings.TrimSpace(name)))
	_, ok := table[m]
	return m, ok
}

// Name is the canonical name.
func (m Manager) Name() string { return string(m) }

// Binary is the executable probed on PATH.
func (m Manager) Binary() string { return table[m].bin }

// RequiresSudo reports the fixed privilege requirement.
func (m Manager) RequiresSudo() bool { return table[m].sudo }

// Convenience reports whether the manager can be bootstrapped by this tool.
func (m Manager) Convenience() bool { return table[m].convenience }

// supportedOn maps a lowercase distribution or family name to its managers in preference order.
var supportedOn = map[string][]Manager{
	"ubuntu":      {Apt, Snap, Flatpak, Nix},
	"debian":      {Apt, Snap, Flatpak, Nix},
	"pop":         {Apt, Snap, Flatpak, Nix},
	"linux":       {Apt, Snap, Flatpak, Nix},
	"fedora":      {Dnf, Snap, Flatpak, Nix},
	"redhat":      {Yum, Nix},
	"centos":      {Yum, Nix},
	"alpine":      {Apk, Nix},
	"arch":        {Pacman, Yay, Flatpak, Snap, Nix},
	"manjaro":     {Pacman, Yay, Flatpak, Snap, Nix},
	"endeavouros": {Pacman, Yay, Flatpak, Snap, Nix},
	"opensuse":    {Zypper, Nix},
	"suse":        {Zypper, Nix},
	"gentoo":      {Portage, Nix},
	"macos":       {Brew, Nix},
	"windows":     {Winget, Choco, Scoop, Nix},
}

// SupportedOn returns the managers usable on the named OS or distribution, most preferred first.
// Unknown Linux distributions fall back to the generic Linux list; unknown systems get nothing.
func SupportedOn(name string) []Manager {
	info := system.For(name)
	if list, ok := supportedOn[strings.ToLower(info.Distro)]; ok {
		return append([]Manager(nil), list...)
	}
	if list, ok := supportedOn[strings.ToLower(info.OS)]; ok {
		return append([]Manager(nil), list...)
	}
	return nil
}

// DefaultFor returns the preferred manager for a system, if any.
func DefaultFor(info system.Info) (Manager, bool) {
	list := SupportedOn(info.Distro)
	if len(list) == 0 {
		return "", false
	}
	return list[0], true
}
