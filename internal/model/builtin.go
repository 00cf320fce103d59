package model

import "machine-bootstrap/internal/pkgmgr"

// BuiltinApplications ships with the binary and is merged with the user's applications file.
func BuiltinApplications() []Application {
	return []Application{
		{
			Name:             "Alacritty",
			Categories:       []Category{TerminalEmulators},
			SupportedSystems: []SystemSupport{MacLin},
			Versions: []Version{{
				Name:         "latest",
				CheckCommand: "alacritty --version",
				Dependencies: []string{"cmake"},
				InstallMethods: []InstallMethod{
					{OS: []string{"Ubuntu", "Debian"}, PackageManager: pkgmgr.Apt, PackageName: "alacritty"},
					{OS: []string{"Arch", "Manjaro", "EndeavourOS"}, PackageManager: pkgmgr.Pacman, PackageName: "alacritty"},
					{OS: []string{"Fedora"}, PackageManager: pkgmgr.Dnf, PackageName: "alacritty"},
					{OS: []string{"Macos"}, PackageManager: pkgmgr.Brew, PackageName: "alacritty", IsCask: true},
				},
			}},
		},
		{
			ID:               "fish-shell",
			Name:             "Fish Shell",
			ServerCompatible: true,
			Categories:       []Category{Shells},
			SupportedSystems: []SystemSupport{MacLin},
			Versions: []Version{{
				Name:         "latest",
				CheckCommand: "fish --version",
				InstallMethods: []InstallMethod{
					{OS: []string{"Macos"}, PackageManager: pkgmgr.Brew, PackageName: "fish"},
					{OS: []string{"Linux"}, PackageManager: pkgmgr.Apt, PackageName: "fish"},
				},
			}},
		},
		{
			ID:               "zsh-shell",
			Name:             "ZSH Shell",
			ServerCompatible: true,
			Categories:       []Category{Shells},
			SupportedSystems: []SystemSupport{MacLin},
			Versions: []Version{{
				Name:         "latest",
				CheckCommand: "zsh --version",
				InstallMethods: []InstallMethod{
					{OS: []string{"Macos"}, PackageManager: pkgmgr.Brew, PackageName: "zsh"},
					{OS: []string{"Linux"}, PackageManager: pkgmgr.Apt, PackageName: "zsh"},
				},
			}},
		},
	}
}
