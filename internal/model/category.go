package model

import (
	"sort"
	"strings"
)

// Category tags an application for filtering.
type Category string

const (
	Fonts                Category = "Fonts"
	PackageManagement    Category = "PackageManagement"
	Shells               Category = "Shells"
	Browsers             Category = "Browsers"
	Servers              Category = "Servers"
	TerminalEmulators    Category = "TerminalEmulators"
	PasswordManagement   Category = "PasswordManagement"
	Encryption           Category = "Encryption"
	RemoteDesktop        Category = "RemoteDesktop"
	VPN                  Category = "VPN"
	DownloadManagement   Category = "DownloadManagement"
	Imaging              Category = "Imaging"
	WindowManagement     Category = "WindowManagement"
	CLITools             Category = "CLITools"
	Customization        Category = "Customization"
	Communication        Category = "Communication"
	Creative             Category = "Creative"
	Productivity         Category = "Productivity"
	Utilities            Category = "Utilities"
	Office               Category = "Office"
	OfficeAddons         Category = "OfficeAddons"
	NoteTaking           Category = "NoteTaking"
	TaskManagement       Category = "TaskManagement"
	Virtualization       Category = "Virtualization"
	Gaming               Category = "Gaming"
	Networking           Category = "Networking"
	Essential            Category = "Essential"
	Development          Category = "Development"
	Recording            Category = "Recording"
	Streaming            Category = "Streaming"
	DatabaseManagement   Category = "DatabaseManagement"
	ProgrammingLanguages Category = "ProgrammingLanguages"
	Editors              Category = "Editors"
	Containerization     Category = "Containerization"
	Engines              Category = "Engines"
	AI                   Category = "AI"
	DevTools             Category = "DevTools"
)

var categories = []Category{
	Fonts, PackageManagement, Shells, Browsers, Servers, TerminalEmulators, PasswordManagement, Encryption,
	RemoteDesktop, VPN, DownloadManagement, Imaging, WindowManagement, CLITools, Customization, Communication,
	Creative, Productivity, Utilities, Office, OfficeAddons, NoteTaking, TaskManagement, Virtualization, Gaming,
	Networking, Essential, Development, Recording, Streaming, DatabaseManagement, ProgrammingLanguages, Editors,
	Containerization, Engines, AI, DevTools,
}

var displayNames = map[Category]string{
	TerminalEmulators:    "Terminal Emulators",
	PasswordManagement:   "Password Managers",
	PackageManagement:    "Package Managers",
	DownloadManagement:   "Download Managers",
	DatabaseManagement:   "Database Management",
	ProgrammingLanguages: "Programming Languages",
	DevTools:             "Development Tools",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryNames lists the serialized names, for schema enums.
func CategoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// DisplayName is the human readable label.
func (c Category) DisplayName() string {
	if d, ok := displayNames[c]; ok {
		return d
	}
	return string(c)
}

// CLIName is the lowercase form accepted on the command line.
func (c Category) CLIName() string {
	return strings.ToLower(string(c))
}

// ParseCategory accepts the serialized name or the CLI name, ignoring case.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// CategoryCounts tallies how many applications carry each category, sorted by name.
func CategoryCounts(apps []Application) []CategoryCount {
	counts := map[Category]int{}
	for _, a := range apps {
		for _, c := range a.Categories {
			counts[c]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// CategoryCount pairs a category with an application count.
type CategoryCount struct {
	Category Category
	Count    int
}
