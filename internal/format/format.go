// Package format maps file extensions to codecs so that every config document can be stored as
// JSON, YAML or XML.
package format

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"machine-bootstrap/internal/messages"
)

// Format is a supported document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	XML  Format = "xml"
)

// ErrUnsupportedExtension is returned for files that are not .json, .yaml, .yml or .xml.
var ErrUnsupportedExtension = errors.New("unsupported extension")

// Extensions lists every accepted extension without the dot.
func Extensions() []string {
	return []string{"json", "yaml", "yml", "xml"}
}

// Detect picks the format from the path's extension.
func Detect(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "xml":
		return XML, nil
	}
	return "", fmt.Errorf("%w: "+messages.ValidateUnsupportedExtensionFmt, ErrUnsupportedExtension, ext)
}

// Decode parses data into v. JSON input may carry comments and trailing commas.
func Decode(f Format, data []byte, v any) error {
	switch f {
	case JSON:
		return json.Unmarshal(jsonc.ToJSON(data), v)
	case YAML:
		return yaml.Unmarshal(data, v)
	case XML:
		return xml.Unmarshal(data, v)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedExtension, string(f))
}

// Encode serializes v in the given format with human friendly indentation.
func Encode(f Format, v any) ([]byte, error) {
	switch f {
	case JSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case XML:
		out, err := xml.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append([]byte(xml.Header), append(out, '\n')...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, string(f))
}

// DecodeFile is Detect followed by Decode.
func DecodeFile(path string, data []byte, v any) error {
	f, err := Detect(path)
	if err != nil {
		return err
	}
	return Decode(f, data, v)
}

// EncodeFile is Detect followed by Encode.
func EncodeFile(path string, v any) ([]byte, error) {
	f, err := Detect(path)
	if err != nil {
		return nil, err
	}
	return Encode(f, v)
}

// Lister is a document whose top level may also be written as a bare list of its items.
type Lister interface {
	// Items returns a pointer to the item slice.
	Items() any
}

// DecodeDocument decodes data into doc. When doc is a Lister and data holds a bare list
// instead, the list is decoded into doc's items. XML has no bare form.
func DecodeDocument(f Format, data []byte, doc any) error {
	err := Decode(f, data, doc)
	if err == nil || f == XML {
		return err
	}
	l, ok := doc.(Lister)
	if !ok {
		return err
	}
	if berr := Decode(f, data, l.Items()); berr == nil {
		return nil
	}
	return err
}

// DecodeDocumentFile is Detect followed by DecodeDocument.
func DecodeDocumentFile(path string, data []byte, doc any) error {
	f, err := Detect(path)
	if err != nil {
		return err
	}
	return DecodeDocument(f, data, doc)
}
