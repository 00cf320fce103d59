// Package validate checks application, VPS and settings documents in any supported format.
//
// A document goes through four steps: read, parse into a canonical value, structural validation
// against a schema generated from the model types, then semantic rules that a schema cannot
// express. Read, parse and extension errors stop the check; every other problem is collected.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sjson "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"machine-bootstrap/internal/config"
	"machine-bootstrap/internal/format"
	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
)

var (
	ErrRead  = errors.New("read error")
	ErrParse = errors.New("parse error")

	// ErrUnsupportedExtension is the format package's sentinel, re-exported for callers of this package.
	ErrUnsupportedExtension = format.ErrUnsupportedExtension
)

// Kind identifies which document shape a file holds.
type Kind string

const (
	Applications Kind = "applications"
	VPS          Kind = "vps"
	Settings     Kind = "settings"
)

// Kinds lists every document kind.
func Kinds() []Kind {
	return []Kind{Applications, VPS, Settings}
}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown document kind %q (expected applications, vps or settings)", s)
}

// KindFor guesses the document kind from a file name.
func KindFor(path string) Kind {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "vps"):
		return VPS
	case strings.Contains(base, "config"), strings.Contains(base, "setting"):
		return Settings
	}
	return Applications
}

// listKey is the top-level key a bare array is wrapped under.
func (k Kind) listKey() string {
	switch k {
	case Applications:
		return "applications"
	case VPS:
		return "vps"
	}
	return ""
}

// ViolationKind separates schema failures from business rule failures.
type ViolationKind string

const (
	SchemaViolation   ViolationKind = "schema"
	SemanticViolation ViolationKind = "semantic"
)

// Violation is one problem found in a document.
type Violation struct {
	Kind    ViolationKind
	Path    string // JSON pointer into the canonical value
	Field   string
	Message string
}

func (v Violation) String() string {
	if v.Kind == SchemaViolation {
		return fmt.Sprintf(messages.ValidateSchemaFmt, v.Path, v.Message)
	}
	return fmt.Sprintf(messages.ValidateSemanticFmt, v.Path, v.Message)
}

// Report is the outcome of checking one file.
type Report struct {
	File       string
	Kind       Kind
	Violations []Violation
	Warnings   []string
}

// Valid reports whether no violation was found. Warnings do not count.
func (r Report) Valid() bool {
	return len(r.Violations) == 0
}

// Of returns the violations of one kind.
func (r Report) Of(k ViolationKind) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Kind == k {
			out = append(out, v)
		}
	}
	return out
}

// Pipeline validates documents and reports problems through Log.
type Pipeline struct {
	Log *logger.Logger
}

// New returns a Pipeline logging to log.
func New(log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{Log: log}
}

// Load reads path and converts it to the canonical value for kind: a tree of map[string]any,
// []any, json.Number, string, bool and nil.
func Load(path string, k Kind) (any, error) {
	f, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: "+messages.ValidateReadFmt+": %v", ErrRead, path, err)
	}
	v, err := canonical(f, raw, k)
	if err != nil {
		return nil, fmt.Errorf("%w: "+messages.ValidateParseFmt+": %v", ErrParse, path, f, err)
	}
	return v, nil
}

func canonical(f format.Format, raw []byte, k Kind) (any, error) {
	var v any
	switch f {
	case format.JSON:
		var err error
		if v, err = sjson.UnmarshalJSON(bytes.NewReader(jsonc.ToJSON(raw))); err != nil {
			return nil, err
		}
	case format.YAML:
		var tree any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, err
		}
		if tree == nil {
			tree = map[string]any{}
		}
		var err error
		if v, err = reencode(tree); err != nil {
			return nil, err
		}
	case format.XML:
		doc := typedDoc(k)
		if err := format.Decode(format.XML, raw, doc); err != nil {
			return nil, err
		}
		var err error
		if v, err = reencode(doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, string(f))
	}

	if list, ok := v.([]any); ok && k.listKey() != "" {
		v = map[string]any{k.listKey(): list}
	}
	return v, nil
}

// typedDoc is the mirror struct XML input is decoded into. Lists start empty, not nil,
// so an empty document serializes as [] rather than null.
func typedDoc(k Kind) any {
	switch k {
	case Applications:
		return &model.ApplicationList{Applications: []model.Application{}}
	case VPS:
		return &model.VPSList{Entries: []model.VPSEntry{}}
	}
	return &config.Settings{}
}

// reencode turns any JSON-marshalable value into the canonical tree.
func reencode(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return sjson.UnmarshalJSON(bytes.NewReader(raw))
}

// Check loads path and runs both validation layers. The returned error is only set for
// fail-fast problems: unsupported extension, unreadable file, unparsable content.
func (p *Pipeline) Check(path string, k Kind) (Report, error) {
	value, err := Load(path, k)
	if err != nil {
		return Report{File: path, Kind: k}, err
	}
	r, err := CheckValue(k, value)
	r.File = path
	return r, err
}

// CheckValue validates an already canonical value. Semantic rules run even when the
// schema already failed.
func CheckValue(k Kind, value any) (Report, error) {
	r := Report{Kind: k}
	schemaViolations, err := structural(k, value)
	if err != nil {
		return r, err
	}
	r.Violations = append(r.Violations, schemaViolations...)

	sem, warnings := semantic(k, value)
	r.Violations = append(r.Violations, sem...)
	r.Warnings = append(r.Warnings, warnings...)
	return r, nil
}

// Validate checks path, logs every problem and returns true only when the file is valid.
func (p *Pipeline) Validate(path string, k Kind) bool {
	r, err := p.Check(path, k)
	if err != nil {
		p.Log.Error("[ERROR] %v\n", err)
		return false
	}
	p.Log.Debug("[DEBUG] Validated %s as %s\n", path, k)
	for _, w := range r.Warnings {
		p.Log.Warn("[WARN] %s\n", w)
	}
	for _, v := range r.Violations {
		p.Log.Error("[ERROR] %s\n", v)
	}
	if !r.Valid() {
		p.Log.Error("[ERROR] "+messages.ValidateFailedFmt+"\n", path, len(r.Violations))
		return false
	}
	p.Log.Info("[INFO] "+messages.ValidatePassedFmt+"\n", path)
	return true
}
