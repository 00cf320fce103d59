package pkgmgr

import (
	"fmt"

	"machine-bootstrap/internal/system"
)

type step struct {
	line string
	sudo bool
}

const (
	brewInstallScript  = `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`
	nixInstallScript   = `curl --proto '=https' --tlsv1.2 -L https://nixos.org/nix/install | sh -s --`
	scoopInstallScript = `iwr -useb get.scoop.sh | iex`
	chocoInstallScript = `Set-ExecutionPolicy Bypass -Scope Process -Force; ` +
		`[System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072; ` +
		`iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))`
	flathubRemote = `flatpak remote-add --if-not-exists flathub https://dl.flathub.org/repo/flathub.flatpakrepo`
)

// bootstrapSteps returns the script lines that install m on the current system.
func (r *Registry) bootstrapSteps(m Manager) ([]step, error) {
	sys := r.System
	switch m {
	case Brew:
		if sys.OS == system.Windows {
			break
		}
		return []step{{line: brewInstallScript}}, nil
	case Nix:
		if sys.OS == system.Windows {
			break
		}
		mode := "--no-daemon"
		if sys.OS == system.MacOS || r.Confirm.Confirm("Use a multi-user (daemon) Nix install?", true) {
			mode = "--daemon"
		}
		return []step{{line: nixInstallScript + " " + mode}}, nil
	case Scoop:
		if sys.OS == system.Windows {
			return []step{{line: scoopInstallScript}}, nil
		}
	case Choco:
		if sys.OS == system.Windows {
			return []step{{line: chocoInstallScript}}, nil
		}
	case Yay:
		if native, ok := DefaultFor(sys); ok && native == Pacman {
			return []step{
				{line: "pacman -S --needed --noconfirm git base-devel", sudo: true},
				{line: "rm -rf /tmp/yay && git clone https://aur.archlinux.org/yay.git /tmp/yay && cd /tmp/yay && makepkg -si --noconfirm"},
			}, nil
		}
	case Snap, Flatpak:
		native, ok := DefaultFor(sys)
		if !ok {
			break
		}
		pkg := string(m)
		if m == Snap {
			pkg = "snapd"
		}
		cmd, err := native.Command("install", pkg, false)
		if err != nil || sys.OS != system.Linux {
			break
		}
		steps := []step{{line: cmd.String()}}
		if m == Flatpak {
			steps = append(steps, step{line: flathubRemote})
		}
		return steps, nil
	}
	return nil, fmt.Errorf("%w: don't know how to install %s on %s", ErrNotAvailable, m, sys.Distro)
}
