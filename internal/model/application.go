// Package model holds the format-independent shapes of applications, install methods and VPS entries.
package model

import (
	"encoding/xml"
	"strings"

	"machine-bootstrap/internal/pkgmgr"
	"machine-bootstrap/internal/system"
)

// ApplicationList is the document stored in an applications file.
type ApplicationList struct {
	XMLName      xml.Name      `json:"-" yaml:"-" xml:"applications"`
	Applications []Application `json:"applications" yaml:"applications" xml:"application"`
}

func (l *ApplicationList) Items() any { return &l.Applications }

// Application is one installable logical application.
type Application struct {
	ID               string          `json:"id,omitempty" yaml:"id,omitempty" xml:"id,omitempty" jsonschema:"defaults to the slug of name"`
	Name             string          `json:"name" yaml:"name" xml:"name"`
	Categories       []Category      `json:"categories,omitempty" yaml:"categories,omitempty" xml:"categories>category,omitempty"`
	ServerCompatible bool            `json:"server_compatible,omitempty" yaml:"server_compatible,omitempty" xml:"server_compatible,omitempty"`
	SupportedSystems []SystemSupport `json:"supported_systems,omitempty" yaml:"supported_systems,omitempty" xml:"supported_systems>system,omitempty"`
	Versions         []Version       `json:"versions,omitempty" yaml:"versions,omitempty" xml:"versions>version,omitempty"`
}

// Version is one installable version of an application. Method order matters.
type Version struct {
	Name           string          `json:"name" yaml:"name" xml:"name"`
	CheckCommand   string          `json:"check_command,omitempty" yaml:"check_command,omitempty" xml:"check_command,omitempty"`
	Dependencies   []string        `json:"dependencies,omitempty" yaml:"dependencies,omitempty" xml:"dependencies>dependency,omitempty"`
	InstallMethods []InstallMethod `json:"install_methods,omitempty" yaml:"install_methods,omitempty" xml:"install_methods>install_method,omitempty"`
}

// InstallMethod is one way of installing a version on a set of systems.
type InstallMethod struct {
	OS             []string       `json:"os" yaml:"os" xml:"os>name"`
	PackageManager pkgmgr.Manager `json:"package_manager,omitempty" yaml:"package_manager,omitempty" xml:"package_manager,omitempty"`
	PackageName    string         `json:"package_name,omitempty" yaml:"package_name,omitempty" xml:"package_name,omitempty"`
	IsCask         bool           `json:"is_cask,omitempty" yaml:"is_cask,omitempty" xml:"is_cask,omitempty"`
	Steps          *InstallSteps  `json:"steps,omitempty" yaml:"steps,omitempty" xml:"steps,omitempty"`
}

// InstallSteps are opaque shell command lines, run verbatim and in order.
type InstallSteps struct {
	PreInstall    []string `json:"preinstall_steps,omitempty" yaml:"preinstall_steps,omitempty" xml:"preinstall_steps>step,omitempty"`
	Install       []string `json:"install,omitempty" yaml:"install,omitempty" xml:"install>step,omitempty"`
	PostInstall   []string `json:"postinstall_steps,omitempty" yaml:"postinstall_steps,omitempty" xml:"postinstall_steps>step,omitempty"`
	Uninstall     []string `json:"uninstall,omitempty" yaml:"uninstall,omitempty" xml:"uninstall>step,omitempty"`
	PostUninstall []string `json:"postuninstall_steps,omitempty" yaml:"postuninstall_steps,omitempty" xml:"postuninstall_steps>step,omitempty"`
}

// EffectiveID returns the declared id or the slug of the name.
func (a Application) EffectiveID() string {
	if a.ID != "" {
		return a.ID
	}
	return Slugify(a.Name)
}

// Flags unions the OS bits of every supported system tag.
func (a Application) Flags() system.OSFlag {
	var f system.OSFlag
	for _, s := range a.SupportedSystems {
		f |= s.Flags()
	}
	return f
}

// InCategories reports whether the application carries any of the given categories.
// An empty filter matches everything.
func (a Application) InCategories(filter []Category) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		for _, have := range a.Categories {
			if want == have {
				return true
			}
		}
	}
	return false
}

// CheckCommand returns the probe command of the first version, if any.
func (a Application) CheckCommand() string {
	if len(a.Versions) == 0 {
		return ""
	}
	return strings.TrimSpace(a.Versions[0].CheckCommand)
}

// AppliesTo reports whether the method lists the given system.
func (m InstallMethod) AppliesTo(sys system.Info) bool {
	for _, name := range m.OS {
		if sys.Matches(strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// HasInstallSteps reports whether the method declares its own install commands.
func (m InstallMethod) HasInstallSteps() bool {
	return m.Steps != nil && len(m.Steps.Install) > 0
}

// HasUninstallSteps reports whether the method declares its own uninstall commands.
func (m InstallMethod) HasUninstallSteps() bool {
	return m.Steps != nil && len(m.Steps.Uninstall) > 0
}

// HasPackage reports whether the method can be handed to a package manager.
func (m InstallMethod) HasPackage() bool {
	return m.PackageManager != "" && m.PackageName != ""
}

// Slugify lowercases s and collapses runs of non-alphanumeric characters into single dashes.
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	prevDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
		} else if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
