package format

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"doc"`
	Name    string   `json:"name" yaml:"name" xml:"name"`
	Tags    []string `json:"tags" yaml:"tags" xml:"tags>tag"`
}

func TestDetect(t *testing.T) {
	cases := map[string]Format{
		"a.json":         JSON,
		"/x/b.YAML":      YAML,
		"c.yml":          YAML,
		"config.d/d.xml": XML,
	}
	for path, want := range cases {
		got, err := Detect(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	for _, bad := range []string{"a.toml", "noext", "a.json.bak"} {
		_, err := Detect(bad)
		assert.ErrorIs(t, err, ErrUnsupportedExtension, bad)
	}
}

func TestDecodeJSONWithComments(t *testing.T) {
	var d doc
	data := []byte("{\n  // name\n  \"name\": \"x\",\n  \"tags\": [\"a\", \"b\",],\n}\n")
	require.NoError(t, Decode(JSON, data, &d))
	assert.Equal(t, "x", d.Name)
	assert.Equal(t, []string{"a", "b"}, d.Tags)
}

func TestEncodeDecodeEachFormat(t *testing.T) {
	in := doc{Name: "x", Tags: []string{"a", "b"}}
	for _, f := range []Format{JSON, YAML, XML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(f, in)
			require.NoError(t, err)
			var out doc
			require.NoError(t, Decode(f, data, &out))
			assert.Equal(t, in.Name, out.Name)
			assert.Equal(t, in.Tags, out.Tags)
		})
	}
}

func (d *doc) Items() any { return &d.Tags }

func TestDecodeDocumentBareList(t *testing.T) {
	var d doc
	require.NoError(t, DecodeDocument(YAML, []byte("- a\n- b\n"), &d))
	assert.Equal(t, []string{"a", "b"}, d.Tags)

	var wrapped doc
	require.NoError(t, DecodeDocumentFile("d.json", []byte(`{"name": "x", "tags": ["c"]}`), &wrapped))
	assert.Equal(t, "x", wrapped.Name)
	assert.Equal(t, []string{"c"}, wrapped.Tags)

	assert.Error(t, DecodeDocument(XML, []byte("<tag>a</tag>"), &doc{}))
	assert.ErrorIs(t, DecodeDocumentFile("d.toml", nil, &doc{}), ErrUnsupportedExtension)
}
