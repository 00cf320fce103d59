package model

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultSSHPort is used when an entry has no port.
const DefaultSSHPort = 22

// VPSList is the document stored in a VPS file.
type VPSList struct {
	XMLName xml.Name   `json:"-" yaml:"-" xml:"vps_list"`
	Entries []VPSEntry `json:"vps" yaml:"vps" xml:"vps"`
}

func (l *VPSList) Items() any { return &l.Entries }

// VPSEntry is one remote host connection profile.
type VPSEntry struct {
	ID                string `json:"id,omitempty" yaml:"id,omitempty" xml:"id,omitempty"`
	Name              string `json:"name,omitempty" yaml:"name,omitempty" xml:"name,omitempty"`
	Host              string `json:"host" yaml:"host" xml:"host"`
	User              string `json:"user,omitempty" yaml:"user,omitempty" xml:"user,omitempty"`
	Port              Port   `json:"port,omitempty" yaml:"port,omitempty" xml:"port,omitempty"`
	PrivateKey        string `json:"private_key,omitempty" yaml:"private_key,omitempty" xml:"private_key,omitempty"`
	PostConnectScript string `json:"post_connect_script,omitempty" yaml:"post_connect_script,omitempty" xml:"post_connect_script,omitempty"`
}

// EffectiveUser falls back to the local user name, then to "user".
func (v VPSEntry) EffectiveUser() string {
	if v.User != "" {
		return v.User
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "user"
}

// EffectivePort returns the configured port or 22. Invalid ports also yield 22;
// validation reports them separately.
func (v VPSEntry) EffectivePort() int {
	if n, err := v.Port.Int(); err == nil {
		return n
	}
	return DefaultSSHPort
}

// Address is host:port.
func (v VPSEntry) Address() string {
	return fmt.Sprintf("%s:%d", v.Host, v.EffectivePort())
}

// Label is the name, or the host for unnamed entries.
func (v VPSEntry) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Host
}

// GenerateVPSID derives an id from the name (or host) and the user: every non-alphanumeric
// character becomes a dash, leading and trailing dashes are trimmed, and "-<user>" is appended.
func GenerateVPSID(name, host, user string) string {
	raw := name
	if raw == "" {
		raw = host
	}
	if raw == "" {
		raw = "vps"
	}
	raw = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, strings.ToLower(raw))

	if user == "" {
		user = "user"
	}
	return strings.Trim(raw, "-") + "-" + strings.ToLower(user)
}

// Port is a TCP port written either as a number or as a numeric string.
type Port string

// Int parses the port. An empty port is an error.
func (p Port) Int() (int, error) {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return 0, fmt.Errorf("port not set")
	}
	return strconv.Atoi(s)
}

// MarshalJSON writes numeric ports as numbers.
func (p Port) MarshalJSON() ([]byte, error) {
	if n, err := p.Int(); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts numbers and strings.
func (p *Port) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Port(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("port must be a number or a numeric string: %w", err)
	}
	*p = Port(n.String())
	return nil
}

// MarshalYAML writes numeric ports as integers.
func (p Port) MarshalYAML() (any, error) {
	if n, err := p.Int(); err == nil {
		return n, nil
	}
	return string(p), nil
}

// UnmarshalYAML accepts any scalar.
func (p *Port) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: port must be a number or a numeric string", node.Line)
	}
	*p = Port(node.Value)
	return nil
}
