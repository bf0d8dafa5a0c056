package flatten

import (
	"testing"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) models.JSONValue {
	t.Helper()
	v, err := parser.ParseString(s)
	require.NoError(t, err)
	return v
}

func toJSON(t *testing.T, v models.JSONValue) string {
	t.Helper()
	b, err := models.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestFlatten_Scenario(t *testing.T) {
	input := mustParse(t, `{"name":"John","address":{"city":"NY","zip":"10001"},"hobbies":["reading","travel"]}`)

	result := Flatten(input, DefaultOptions())

	assert.Equal(t,
		`{"name":"John","address.city":"NY","address.zip":"10001","hobbies[0]":"reading","hobbies[1]":"travel"}`,
		toJSON(t, result))
}

func TestFlatten_Options(t *testing.T) {
	input := `{"a":{"b":{"c":1}},"list":[{"x":1},[2,3]],"empty":{},"none":[]}`

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{
			name:     "defaults",
			opts:     DefaultOptions(),
			expected: `{"a.b.c":1,"list[0].x":1,"list[1][0]":2,"list[1][1]":3,"empty":{},"none":[]}`,
		},
		{
			name:     "custom delimiter",
			opts:     Options{Delimiter: "/", FlattenArrays: true, MaxDepth: -1},
			expected: `{"a/b/c":1,"list[0]/x":1,"list[1][0]":2,"list[1][1]":3,"empty":{},"none":[]}`,
		},
		{
			name:     "arrays kept whole",
			opts:     Options{Delimiter: ".", FlattenArrays: false, MaxDepth: -1},
			expected: `{"a.b.c":1,"list":[{"x":1},[2,3]],"empty":{},"none":[]}`,
		},
		{
			name:     "max depth one",
			opts:     Options{Delimiter: ".", FlattenArrays: true, MaxDepth: 1},
			expected: `{"a":{"b":{"c":1}},"list":[{"x":1},[2,3]],"empty":{},"none":[]}`,
		},
		{
			name:     "max depth two",
			opts:     Options{Delimiter: ".", FlattenArrays: true, MaxDepth: 2},
			expected: `{"a.b":{"c":1},"list[0]":{"x":1},"list[1]":[2,3],"empty":{},"none":[]}`,
		},
		{
			name:     "max depth zero records root",
			opts:     Options{Delimiter: ".", FlattenArrays: true, MaxDepth: 0},
			expected: `{"":{"a":{"b":{"c":1}},"list":[{"x":1},[2,3]],"empty":{},"none":[]}}`,
		},
		{
			name:     "empty delimiter accepted",
			opts:     Options{Delimiter: "", FlattenArrays: false, MaxDepth: -1},
			expected: `{"abc":1,"list":[{"x":1},[2,3]],"empty":{},"none":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.opts.Validate())
			result := Flatten(mustParse(t, input), tt.opts)
			assert.Equal(t, tt.expected, toJSON(t, result))
		})
	}
}

func TestFlatten_Roots(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string root", `"hello"`, `{"":"hello"}`},
		{"number root", `42`, `{"":42}`},
		{"null root", `null`, `{"":null}`},
		{"array root", `[1,{"a":2}]`, `{"[0]":1,"[1].a":2}`},
		{"empty object root", `{}`, `{}`},
		{"empty array root", `[]`, `{"":[]}`},
		{"empty key", `{"":{"":1,"a":2}}`, `{".":1,".a":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toJSON(t, Flatten(mustParse(t, tt.input), DefaultOptions())))
		})
	}
}

func TestFlatten_IdempotentOnFlatObjects(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":"two","c":true,"d":null}`,
		`{"address.city":"NY","x":1.5}`,
		`{}`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			original := mustParse(t, input)
			once := Flatten(original, DefaultOptions())
			assert.True(t, models.Equal(original, once), "flatten changed %s into %s", input, toJSON(t, once))

			twice := Flatten(once, DefaultOptions())
			assert.Equal(t, toJSON(t, once), toJSON(t, twice))
		})
	}
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	input := mustParse(t, `{"a":{"b":[1,2]}}`)
	before := toJSON(t, input)
	_ = Flatten(input, DefaultOptions())
	assert.Equal(t, before, toJSON(t, input))
}

func TestFlatten_KeyCase(t *testing.T) {
	input := mustParse(t, `{"userProfile":{"firstName":"Ada","home_city":"London"}}`)

	tests := []struct {
		keyCase  KeyCase
		expected string
	}{
		{KeyCaseSnake, `{"user_profile.first_name":"Ada","user_profile.home_city":"London"}`},
		{KeyCaseKebab, `{"user-profile.first-name":"Ada","user-profile.home-city":"London"}`},
		{KeyCaseCamel, `{"UserProfile.FirstName":"Ada","UserProfile.HomeCity":"London"}`},
		{KeyCaseLowerCamel, `{"userProfile.firstName":"Ada","userProfile.homeCity":"London"}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.keyCase), func(t *testing.T) {
			opts := DefaultOptions()
			opts.KeyCase = tt.keyCase
			assert.Equal(t, tt.expected, toJSON(t, Flatten(input, opts)))
		})
	}
}

func TestFlattenWithProgress(t *testing.T) {
	input := mustParse(t, `{"a":1,"b":{"c":2},"d":[3,4],"e":5}`)

	var reports []float64
	FlattenWithProgress(input, DefaultOptions(), func(p float64) { reports = append(reports, p) })

	assert.Equal(t, []float64{25, 50, 75, 100}, reports)
}

func TestOptions_Validate(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = -2
	err := opts.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	opts = DefaultOptions()
	opts.KeyCase = "SCREAMING"
	assert.Error(t, opts.Validate())

	assert.NoError(t, DefaultOptions().Validate())
}
