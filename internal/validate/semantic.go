package validate

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"machine-bootstrap/internal/format"
	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
)

func semantic(k Kind, value any) ([]Violation, []string) {
	switch k {
	case Applications:
		return applicationRules(value), nil
	case VPS:
		return vpsRules(value), nil
	case Settings:
		return settingsRules(value)
	}
	return nil, nil
}

func semanticViolation(path, field, msg string) Violation {
	return Violation{Kind: SemanticViolation, Path: path, Field: field, Message: msg}
}

// list returns value[key] as a slice; anything else yields nil.
func list(value any, key string) []any {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	items, _ := obj[key].([]any)
	return items
}

func hasKey(obj map[string]any, key string) bool {
	v, ok := obj[key]
	return ok && v != nil
}

// nonEmptyList reports whether obj[key] is a list with at least one element.
func nonEmptyList(obj map[string]any, key string) bool {
	items, ok := obj[key].([]any)
	return ok && len(items) > 0
}

// applicationRules enforces, for every install method, that it has steps or a package manager,
// and that a package manager without full step coverage names a package.
func applicationRules(value any) []Violation {
	var out []Violation
	for i, app := range list(value, "applications") {
		for j, version := range list(app, "versions") {
			for k, m := range list(version, "install_methods") {
				method, ok := m.(map[string]any)
				if !ok {
					continue
				}
				path := fmt.Sprintf("/applications/%d/versions/%d/install_methods/%d", i, j, k)
				hasSteps := hasKey(method, "steps")
				hasManager := hasKey(method, "package_manager")

				if !hasSteps && !hasManager {
					out = append(out, semanticViolation(path, "steps",
						fmt.Sprintf(messages.MethodNeedsStepsOrManagerFmt, i, j, k)))
					continue
				}
				if !hasManager {
					continue
				}

				covered := false
				if steps, ok := method["steps"].(map[string]any); ok {
					covered = nonEmptyList(steps, "install") && nonEmptyList(steps, "uninstall")
				}
				if !covered && !nonEmptyString(method["package_name"]) {
					out = append(out, semanticViolation(path, "package_name",
						fmt.Sprintf(messages.MethodNeedsPackageNameFmt, i, j, k)))
				}
			}
		}
	}
	return out
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// vpsRules requires a name and a host, and a port in 1..65535 when one is given.
func vpsRules(value any) []Violation {
	var out []Violation
	for i, e := range list(value, "vps") {
		if entry, ok := e.(map[string]any); ok {
			out = append(out, vpsEntryRules(i, entry)...)
		}
	}
	return out
}

// VPSEntry applies the VPS file rules to e as if it sat at index i of the file.
func VPSEntry(i int, e model.VPSEntry) []Violation {
	entry := map[string]any{"name": e.Name, "host": e.Host}
	if e.Port != "" {
		entry["port"] = string(e.Port)
	}
	return vpsEntryRules(i, entry)
}

func vpsEntryRules(i int, entry map[string]any) []Violation {
	var out []Violation
	path := fmt.Sprintf("/vps/%d", i)
	name, _ := entry["name"].(string)

	if strings.TrimSpace(name) == "" {
		out = append(out, semanticViolation(path, "name", fmt.Sprintf(messages.VPSMissingNameFmt, i)))
	}
	if !nonEmptyString(entry["host"]) {
		out = append(out, semanticViolation(path, "host", fmt.Sprintf(messages.VPSMissingHostFmt, i, name)))
	}
	if raw, ok := entry["port"]; ok && raw != nil {
		if v, ok := portViolation(i, raw); ok {
			v.Path = path + "/port"
			out = append(out, v)
		}
	}
	return out
}

func portViolation(i int, raw any) (Violation, bool) {
	var text string
	switch p := raw.(type) {
	case json.Number:
		text = p.String()
	case string:
		text = strings.TrimSpace(p)
	case float64:
		text = strconv.FormatFloat(p, 'f', -1, 64)
	default:
		text = fmt.Sprint(p)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return semanticViolation("", "port", fmt.Sprintf(messages.VPSPortNotNumberFmt, i, text)), true
	}
	if n < 1 || n > 65535 {
		return semanticViolation("", "port", fmt.Sprintf(messages.VPSPortRangeFmt, i, n)), true
	}
	return Violation{}, false
}

// settingsRules checks that every path field is a non-empty absolute path and that the two
// document paths carry a supported extension. Missing fields are warnings.
func settingsRules(value any) ([]Violation, []string) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	var out []Violation
	var warnings []string
	for _, field := range []struct {
		name     string
		checkExt bool
	}{
		{"applications_file", true},
		{"vps_file", true},
		{"log_directory", false},
	} {
		path := "/" + field.name
		raw, present := obj[field.name]
		if !present {
			warnings = append(warnings, fmt.Sprintf(messages.SettingsFieldMissingFmt, field.name))
			continue
		}
		s, isString := raw.(string)
		switch {
		case !isString:
			out = append(out, semanticViolation(path, field.name, fmt.Sprintf(messages.SettingsFieldNotStringFmt, field.name)))
		case strings.TrimSpace(s) == "":
			out = append(out, semanticViolation(path, field.name, fmt.Sprintf(messages.SettingsFieldEmptyFmt, field.name)))
		case !filepath.IsAbs(s):
			out = append(out, semanticViolation(path, field.name, fmt.Sprintf(messages.SettingsFieldNotAbsoluteFmt, field.name, s)))
		case field.checkExt:
			if _, err := format.Detect(s); err != nil {
				ext := strings.TrimPrefix(filepath.Ext(s), ".")
				out = append(out, semanticViolation(path, field.name, fmt.Sprintf(messages.SettingsFieldBadExtensionFmt, field.name, ext)))
			}
		}
	}
	return out, warnings
}
