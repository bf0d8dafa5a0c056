package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dustin/go-humanize"
	"github.com/mcncl/jsonkit/internal/flatten"
	"github.com/mcncl/jsonkit/internal/merge"
	"github.com/mcncl/jsonkit/internal/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	// Test default values
	assert.Equal(t, ".", cfg.Flatten.Delimiter)
	assert.True(t, cfg.Flatten.FlattenArrays)
	assert.Equal(t, -1, cfg.Flatten.MaxDepth)
	assert.Equal(t, "concat", cfg.Merge.ArrayStrategy)
	assert.Equal(t, "overwrite", cfg.Merge.ConflictResolution)
	assert.Equal(t, "id", cfg.Merge.MergeKey)
	assert.Equal(t, -1, cfg.Merge.Depth)
	assert.False(t, cfg.Merge.AllowMixedRoots)
	assert.Equal(t, ByteSize(500*humanize.MiByte), cfg.Limits.Merge)
	assert.Equal(t, ByteSize(50*humanize.MiByte), cfg.Limits.HTML)
	assert.Equal(t, ByteSize(humanize.MiByte), cfg.Limits.ReadChunk)
	assert.Equal(t, 1_000_000, cfg.Limits.Clipboard)
	assert.Equal(t, "  ", cfg.Indent())

	require.NoError(t, cfg.Validate())
	assert.Equal(t, flatten.DefaultOptions(), cfg.FlattenOptions())
	assert.Equal(t, merge.DefaultOptions(), cfg.MergeOptions())

	method, err := cfg.SplitMethod()
	require.NoError(t, err)
	assert.Equal(t, split.Items(100), method)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
flatten:
  delimiter: "/"
  flatten_arrays: false
  max_depth: 3
  key_case: snake
merge:
  array_strategy: merge-by-key
  conflict_resolution: merge
  numeric_handling: sum
  string_handling: concatenate
  merge_key: sku
  depth: 2
  allow_mixed_roots: true
split:
  method: size
  value: 512KB
output:
  indent: 4
limits:
  merge: 1GiB
  flatten: 2048
  clipboard: 5000
log:
  level: debug
  json: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, flatten.Options{Delimiter: "/", FlattenArrays: false, MaxDepth: 3, KeyCase: flatten.KeyCaseSnake}, cfg.FlattenOptions())

	opts := cfg.MergeOptions()
	assert.Equal(t, merge.ArrayMergeByKey, opts.ArrayStrategy)
	assert.Equal(t, merge.ConflictMerge, opts.ConflictResolution)
	assert.Equal(t, merge.NumericSum, opts.NumericHandling)
	assert.Equal(t, merge.StringConcatenate, opts.StringHandling)
	assert.Equal(t, "sku", opts.MergeKey)
	assert.Equal(t, 2, opts.Depth)
	assert.True(t, opts.AllowMixedRoots)

	method, err := cfg.SplitMethod()
	require.NoError(t, err)
	assert.Equal(t, split.MaxSize(512000), method)

	assert.Equal(t, "    ", cfg.Indent())
	assert.Equal(t, ByteSize(humanize.GiByte), cfg.Limits.Merge)
	assert.Equal(t, ByteSize(2048), cfg.Limits.Flatten)
	assert.Equal(t, 5000, cfg.Limits.Clipboard)
	// untouched sections keep their defaults
	assert.Equal(t, ByteSize(500*humanize.MiByte), cfg.Limits.Split)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `
merge:
  array_strategy: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown strategy", "merge:\n  array_strategy: zip\n"},
		{"mergeByKey without key", "merge:\n  array_strategy: mergeByKey\n  merge_key: \"\"\n"},
		{"depth below -1", "flatten:\n  max_depth: -2\n"},
		{"unknown key case", "flatten:\n  key_case: shouting\n"},
		{"empty delimiter", "flatten:\n  delimiter: \"\"\n"},
		{"bad split value", "split:\n  method: items\n  value: \"2.5\"\n"},
		{"zero limit", "limits:\n  split: 0\n"},
		{"negative size", "limits:\n  split: -5MB\n"},
		{"zero clipboard", "limits:\n  clipboard: 0\n"},
		{"bad log level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestConfig_FindConfigFile(t *testing.T) {
	// Create temp directory structure
	tmpDir, err := os.MkdirTemp("", "config_search_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	// Create nested directory
	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	err = os.MkdirAll(nestedDir, 0o755)
	require.NoError(t, err)

	// Create config file in project root
	configPath := filepath.Join(tmpDir, "project", ".jsonkit.yml")
	configContent := "merge:\n  merge_key: found\n"
	err = os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	// Change to nested directory
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(nestedDir)
	require.NoError(t, err)

	// Find config file - should find it in parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	// Load picks up the discovered file
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Merge.MergeKey)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	// Create temp directory with no config
	tmpDir, err := os.MkdirTemp("", "no_config_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	// Should not find config file
	foundPath := FindConfigFile()
	assert.Empty(t, foundPath)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestConfig_ApplyFlatten(t *testing.T) {
	cfg := NewConfig()
	cfg.Flatten.MaxDepth = 4

	// Flags that were not given leave the file values alone
	cfg.ApplyFlatten(FlattenOverrides{})
	assert.Equal(t, 4, cfg.Flatten.MaxDepth)
	assert.True(t, cfg.Flatten.FlattenArrays)

	cfg.ApplyFlatten(FlattenOverrides{Delimiter: "_", NoArrays: true, MaxDepth: intPtr(1), KeyCase: "kebab"})
	assert.Equal(t, flatten.Options{Delimiter: "_", FlattenArrays: false, MaxDepth: 1, KeyCase: flatten.KeyCaseKebab}, cfg.FlattenOptions())

	// An explicit -1 switches a finite depth back to unlimited
	cfg.ApplyFlatten(FlattenOverrides{MaxDepth: intPtr(-1)})
	assert.Equal(t, -1, cfg.Flatten.MaxDepth)
}

func TestConfig_ApplyMerge(t *testing.T) {
	path := writeConfig(t, "merge:\n  array_strategy: overwrite\n  depth: 3\n  allow_mixed_roots: true\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Verify precedence: CLI > config file > defaults
	cfg.ApplyMerge(MergeOverrides{MergeKey: "uuid"})
	assert.Equal(t, "overwrite", cfg.Merge.ArrayStrategy) // From config file
	assert.Equal(t, 3, cfg.Merge.Depth)                   // From config file
	assert.True(t, cfg.Merge.AllowMixedRoots)             // From config file
	assert.Equal(t, "uuid", cfg.Merge.MergeKey)           // From CLI
	assert.Equal(t, "keep", cfg.Merge.NumericHandling)    // Default

	cfg.ApplyMerge(MergeOverrides{ArrayStrategy: "merge", NumericHandling: "sum", Depth: intPtr(0)})
	assert.Equal(t, merge.ArrayUnion, cfg.MergeOptions().ArrayStrategy)
	assert.Equal(t, merge.NumericSum, cfg.MergeOptions().NumericHandling)
	assert.Equal(t, 0, cfg.Merge.Depth)

	// Explicit flags can turn file settings back to their defaults
	cfg.ApplyMerge(MergeOverrides{Depth: intPtr(-1), AllowMixedRoots: boolPtr(false)})
	assert.Equal(t, -1, cfg.Merge.Depth)
	assert.False(t, cfg.Merge.AllowMixedRoots)
}

func TestConfig_ApplySplit(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplySplit("", "")
	method, err := cfg.SplitMethod()
	require.NoError(t, err)
	assert.Equal(t, split.Items(100), method)

	cfg.ApplySplit("chunks", "4")
	method, err = cfg.SplitMethod()
	require.NoError(t, err)
	assert.Equal(t, split.Chunks(4), method)
}

func TestConfig_MaxInputSize(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, uint64(500*humanize.MiByte), cfg.MaxInputSize("merge"))
	assert.Equal(t, uint64(100*humanize.MiByte), cfg.MaxInputSize("unflatten"))
	assert.Equal(t, uint64(50*humanize.MiByte), cfg.MaxInputSize("merge-html"))
}

func TestByteSize_String(t *testing.T) {
	assert.Equal(t, "1.0 MiB", ByteSize(humanize.MiByte).String())
}
