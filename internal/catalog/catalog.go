// Package catalog assembles the application list from the built-in set and the user's file.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"machine-bootstrap/internal/format"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/system"
)

// Load returns the built-in applications merged with the ones in path. A user entry with the
// same id replaces the built-in one in place; new ids are appended in file order. A missing
// file yields the built-ins alone.
func Load(path string) ([]model.Application, error) {
	apps := model.BuiltinApplications()
	if path == "" {
		return apps, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return apps, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	user, err := decode(path, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return Merge(apps, user), nil
}

// decode accepts both a document with an "applications" key and a bare list.
func decode(path string, raw []byte) ([]model.Application, error) {
	var doc model.ApplicationList
	if err := format.DecodeDocumentFile(path, raw, &doc); err != nil {
		return nil, err
	}
	return doc.Applications, nil
}

// Merge overlays user on base by effective id.
func Merge(base, user []model.Application) []model.Application {
	out := append([]model.Application(nil), base...)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.EffectiveID()] = i
	}
	for _, a := range user {
		id := a.EffectiveID()
		if i, ok := index[id]; ok {
			out[i] = a
			continue
		}
		index[id] = len(out)
		out = append(out, a)
	}
	return out
}

// Filter keeps the applications that support sys, that are server compatible when serverOnly
// is set, and that carry one of categories (all when empty). Order is preserved.
func Filter(apps []model.Application, sys system.Info, serverOnly bool, categories []model.Category) []model.Application {
	flag := sys.Flag()
	var out []model.Application
	for _, a := range apps {
		if a.Flags()&flag == 0 {
			continue
		}
		if serverOnly && !a.ServerCompatible {
			continue
		}
		if !a.InCategories(categories) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Select picks applications by id or name, case-insensitively, in the order requested.
// Unknown names are returned separately.
func Select(apps []model.Application, names []string) (found []model.Application, unknown []string) {
	for _, n := range names {
		matched := false
		for _, a := range apps {
			if strings.EqualFold(a.EffectiveID(), n) || strings.EqualFold(a.Name, n) {
				found = append(found, a)
				matched = true
				break
			}
		}
		if !matched {
			unknown = append(unknown, n)
		}
	}
	return found, unknown
}
