package convert

import (
	"testing"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	c := &Converter{Formatter: &formatter.Formatter{YAMLIndent: 2}}

	tests := []struct {
		name     string
		input    string
		from, to parser.Format
		expected string
	}{
		{
			name:     "json array to jsonl",
			input:    `[{"id":1,"tags":["a"]},{"id":2}]`,
			from:     parser.FormatJSON,
			to:       parser.FormatJSONL,
			expected: "{\"id\":1,\"tags\":[\"a\"]}\n{\"id\":2}\n",
		},
		{
			name:     "json object to jsonl",
			input:    `{"id":1}`,
			from:     parser.FormatJSON,
			to:       parser.FormatJSONL,
			expected: "{\"id\":1}\n",
		},
		{
			name:     "jsonl to json skips blank lines",
			input:    "{\"id\":1}\n\n  {\"id\":2}  \n",
			from:     parser.FormatJSONL,
			to:       parser.FormatJSON,
			expected: `[{"id":1},{"id":2}]`,
		},
		{
			name:     "yaml to json keeps key order",
			input:    "zeta: 1\nalpha:\n  - x\n  - true\n",
			from:     parser.FormatYAML,
			to:       parser.FormatJSON,
			expected: `{"zeta":1,"alpha":["x",true]}`,
		},
		{
			name:     "json to yaml",
			input:    `{"name":"svc","replicas":3,"version":"2"}`,
			from:     parser.FormatJSON,
			to:       parser.FormatYAML,
			expected: "name: svc\nreplicas: 3\nversion: \"2\"\n",
		},
		{
			name:     "jsonl to yaml",
			input:    "1\n\"two\"\n",
			from:     parser.FormatJSONL,
			to:       parser.FormatYAML,
			expected: "- 1\n- two\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Convert("input", []byte(tt.input), tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestConvert_BadJSONLLine(t *testing.T) {
	_, err := NewConverter().Convert("events.jsonl", []byte("{\"ok\":1}\n{oops}\n"), parser.FormatJSONL, parser.FormatJSON)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))
	assert.Contains(t, err.Error(), "events.jsonl")
	assert.Contains(t, err.Error(), "line 2")
}

func TestFormats(t *testing.T) {
	from, to, err := Formats("in.yml", "out.ndjson", "", "")
	require.NoError(t, err)
	assert.Equal(t, parser.FormatYAML, from)
	assert.Equal(t, parser.FormatJSONL, to)

	from, to, err = Formats("", "", "jsonl", "yaml")
	require.NoError(t, err)
	assert.Equal(t, parser.FormatJSONL, from)
	assert.Equal(t, parser.FormatYAML, to)

	// explicit flags win over extensions
	from, _, err = Formats("data.txt", "out.json", "json", "")
	require.NoError(t, err)
	assert.Equal(t, parser.FormatJSON, from)

	_, _, err = Formats("in.json", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to")

	_, _, err = Formats("in.csv", "out.json", "", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, _, err = Formats("in.json", "out.json", "", "toml")
	require.Error(t, err)
}
