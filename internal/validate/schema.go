package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sjson "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"machine-bootstrap/internal/config"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/pkgmgr"
)

var printer = message.NewPrinter(language.English)

func enumOf(names []string) *jsonschema.Schema {
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	return &jsonschema.Schema{Type: "string", Enum: values}
}

func typeSchemas() map[reflect.Type]*jsonschema.Schema {
	return map[reflect.Type]*jsonschema.Schema{
		reflect.TypeFor[model.Category]():      enumOf(model.CategoryNames()),
		reflect.TypeFor[model.SystemSupport](): enumOf(model.SystemSupportNames()),
		reflect.TypeFor[pkgmgr.Manager]():      enumOf(pkgmgr.Names()),
		reflect.TypeFor[config.LogOutput]():    enumOf(config.LogOutputNames()),
		reflect.TypeFor[model.Port]():          {Types: []string{"integer", "string"}},
	}
}

// Schema generates the JSON Schema for a document kind from the model types.
func Schema(k Kind) (*jsonschema.Schema, error) {
	opts := &jsonschema.ForOptions{TypeSchemas: typeSchemas()}
	switch k {
	case Applications:
		return jsonschema.For[model.ApplicationList](opts)
	case VPS:
		s, err := jsonschema.For[model.VPSList](opts)
		if err != nil {
			return nil, err
		}
		if entry := s.Properties["vps"]; entry != nil && entry.Items != nil {
			if host := entry.Items.Properties["host"]; host != nil {
				host.MinLength = jsonschema.Ptr(1)
			}
		}
		return s, nil
	case Settings:
		return jsonschema.For[config.Settings](opts)
	}
	return nil, fmt.Errorf("unknown document kind %q", k)
}

func compile(k Kind) (*sjson.Schema, error) {
	gen, err := Schema(k)
	if err != nil {
		return nil, fmt.Errorf("generate %s schema: %w", k, err)
	}
	raw, err := json.Marshal(gen)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", k, err)
	}
	doc, err := sjson.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	url := "mem://" + string(k) + ".schema.json"
	c := sjson.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

// structural validates value against the kind's schema and returns every leaf violation.
func structural(k Kind, value any) ([]Violation, error) {
	sch, err := compile(k)
	if err != nil {
		return nil, err
	}
	err = sch.Validate(value)
	if err == nil {
		return nil, nil
	}
	var verr *sjson.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	var out []Violation
	var walk func(e *sjson.ValidationError)
	walk = func(e *sjson.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Violation{
				Kind:    SchemaViolation,
				Path:    pointer(e.InstanceLocation),
				Field:   fieldOf(e),
				Message: e.ErrorKind.LocalizedString(printer),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func pointer(tokens []string) string {
	if len(tokens) == 0 {
		return "/"
	}
	return "/" + strings.Join(tokens, "/")
}

// fieldOf names the offending property. Missing-property errors sit on the parent object.
func fieldOf(e *sjson.ValidationError) string {
	if req, ok := e.ErrorKind.(*kind.Required); ok && len(req.Missing) > 0 {
		return strings.Join(req.Missing, ",")
	}
	return lastField(e.InstanceLocation)
}

func lastField(tokens []string) string {
	for i := len(tokens) - 1; i >= 0; i-- {
		if !isIndex(tokens[i]) {
			return tokens[i]
		}
	}
	return ""
}

func isIndex(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
