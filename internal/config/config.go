package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mcncl/jsonkit/internal/flatten"
	"github.com/mcncl/jsonkit/internal/merge"
	"github.com/mcncl/jsonkit/internal/split"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonkit
type Config struct {
	Flatten FlattenConfig `yaml:"flatten"`
	Merge   MergeConfig   `yaml:"merge"`
	Split   SplitConfig   `yaml:"split"`
	Output  OutputConfig  `yaml:"output"`
	Limits  LimitsConfig  `yaml:"limits"`
	Log     LogConfig     `yaml:"log"`
}

// FlattenConfig holds flatten and unflatten defaults
type FlattenConfig struct {
	Delimiter     string `yaml:"delimiter"`
	FlattenArrays bool   `yaml:"flatten_arrays"`
	MaxDepth      int    `yaml:"max_depth"`
	KeyCase       string `yaml:"key_case"`
}

// MergeConfig holds deep merge defaults
type MergeConfig struct {
	ArrayStrategy      string `yaml:"array_strategy"`
	ConflictResolution string `yaml:"conflict_resolution"`
	NumericHandling    string `yaml:"numeric_handling"`
	StringHandling     string `yaml:"string_handling"`
	MergeKey           string `yaml:"merge_key"`
	Depth              int    `yaml:"depth"`
	AllowMixedRoots    bool   `yaml:"allow_mixed_roots"`
}

// SplitConfig holds the default split method
type SplitConfig struct {
	Method string `yaml:"method"` // items, chunks or size
	Value  string `yaml:"value"`  // e.g. "100" or "512KB"
}

// OutputConfig controls how results are written
type OutputConfig struct {
	// Indent is the number of spaces used for JSON output; 0 writes compact JSON.
	Indent    int    `yaml:"indent"`
	Directory string `yaml:"directory"`
}

// LimitsConfig bounds input sizes per tool and output sizes
type LimitsConfig struct {
	Merge     ByteSize `yaml:"merge"`
	Split     ByteSize `yaml:"split"`
	Flatten   ByteSize `yaml:"flatten"`
	Convert   ByteSize `yaml:"convert"`
	HTML      ByteSize `yaml:"html"`
	ReadChunk ByteSize `yaml:"read_chunk"`
	// Display is the largest result printed to stdout; larger results must go to a file.
	Display ByteSize `yaml:"display"`
	// Clipboard is the largest result, in characters, copied to the clipboard.
	Clipboard int `yaml:"clipboard"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ByteSize is a size in bytes that reads from YAML as either a number or a
// humanized string such as "500MB" or "1MiB".
type ByteSize uint64

// UnmarshalYAML implements yaml.Unmarshaler
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "-") {
		return fmt.Errorf("size '%s' must not be negative", raw)
	}
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return fmt.Errorf("invalid size '%s': %w", raw, err)
	}
	*b = ByteSize(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return humanize.IBytes(uint64(b)), nil
}

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	flattenDefaults := flatten.DefaultOptions()
	mergeDefaults := merge.DefaultOptions()

	return &Config{
		Flatten: FlattenConfig{
			Delimiter:     flattenDefaults.Delimiter,
			FlattenArrays: flattenDefaults.FlattenArrays,
			MaxDepth:      flattenDefaults.MaxDepth,
			KeyCase:       string(flattenDefaults.KeyCase),
		},
		Merge: MergeConfig{
			ArrayStrategy:      string(mergeDefaults.ArrayStrategy),
			ConflictResolution: string(mergeDefaults.ConflictResolution),
			NumericHandling:    string(mergeDefaults.NumericHandling),
			StringHandling:     string(mergeDefaults.StringHandling),
			MergeKey:           mergeDefaults.MergeKey,
			Depth:              mergeDefaults.Depth,
			AllowMixedRoots:    false,
		},
		Split: SplitConfig{
			Method: string(split.ByItemCount),
			Value:  "100",
		},
		Output: OutputConfig{
			Indent: 2,
		},
		Limits: LimitsConfig{
			Merge:     500 * humanize.MiByte,
			Split:     500 * humanize.MiByte,
			Flatten:   100 * humanize.MiByte,
			Convert:   100 * humanize.MiByte,
			HTML:      50 * humanize.MiByte,
			ReadChunk: humanize.MiByte,
			Display:   10 * humanize.MiByte,
			Clipboard: 1_000_000,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonkit.yml", ".jsonkit.yaml", "jsonkit.yml", "jsonkit.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Load reads the config at path, or the nearest discovered config file when
// path is empty. Without any file the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}
	if path == "" {
		return NewConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.FlattenOptions().Validate(); err != nil {
		return err
	}
	if c.Flatten.Delimiter == "" {
		return fmt.Errorf("flatten.delimiter must not be empty")
	}
	if err := c.MergeOptions().Validate(); err != nil {
		return err
	}
	if _, err := c.SplitMethod(); err != nil {
		return err
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must not be negative, got %d", c.Output.Indent)
	}

	limits := map[string]ByteSize{
		"merge":      c.Limits.Merge,
		"split":      c.Limits.Split,
		"flatten":    c.Limits.Flatten,
		"convert":    c.Limits.Convert,
		"html":       c.Limits.HTML,
		"read_chunk": c.Limits.ReadChunk,
		"display":    c.Limits.Display,
	}
	for name, size := range limits {
		if size == 0 {
			return fmt.Errorf("limits.%s must be greater than zero", name)
		}
	}
	if c.Limits.Clipboard <= 0 {
		return fmt.Errorf("limits.clipboard must be greater than zero, got %d", c.Limits.Clipboard)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", c.Log.Level, err)
	}
	return nil
}

// FlattenOptions converts the flatten section into flatten.Options
func (c *Config) FlattenOptions() flatten.Options {
	return flatten.Options{
		Delimiter:     c.Flatten.Delimiter,
		FlattenArrays: c.Flatten.FlattenArrays,
		MaxDepth:      c.Flatten.MaxDepth,
		KeyCase:       flatten.KeyCase(c.Flatten.KeyCase),
	}
}

// MergeOptions converts the merge section into merge.Options
func (c *Config) MergeOptions() merge.Options {
	strategy, err := merge.ParseArrayStrategy(c.Merge.ArrayStrategy)
	if err != nil {
		// left as written so Validate reports it
		strategy = merge.ArrayStrategy(c.Merge.ArrayStrategy)
	}
	return merge.Options{
		ArrayStrategy:      strategy,
		ConflictResolution: merge.ConflictResolution(c.Merge.ConflictResolution),
		NumericHandling:    merge.NumericHandling(c.Merge.NumericHandling),
		StringHandling:     merge.StringHandling(c.Merge.StringHandling),
		MergeKey:           c.Merge.MergeKey,
		Depth:              c.Merge.Depth,
		AllowMixedRoots:    c.Merge.AllowMixedRoots,
	}
}

// SplitMethod parses the split section
func (c *Config) SplitMethod() (split.Method, error) {
	return split.ParseMethod(c.Split.Method, c.Split.Value)
}

// Indent returns the JSON indentation string for the output section
func (c *Config) Indent() string {
	return strings.Repeat(" ", c.Output.Indent)
}

// FlattenOverrides are flatten flags given on the command line. Zero values
// and nil pointers leave the config untouched.
type FlattenOverrides struct {
	Delimiter string
	NoArrays  bool
	MaxDepth  *int
	KeyCase   string
}

// MergeOverrides are merge flags given on the command line. Zero values and nil
// pointers leave the config untouched.
type MergeOverrides struct {
	ArrayStrategy      string
	ConflictResolution string
	NumericHandling    string
	StringHandling     string
	MergeKey           string
	Depth              *int
	AllowMixedRoots    *bool
}

// ApplyFlatten applies CLI flatten flags over the file values
func (c *Config) ApplyFlatten(o FlattenOverrides) {
	if o.Delimiter != "" {
		c.Flatten.Delimiter = o.Delimiter
	}
	if o.NoArrays {
		c.Flatten.FlattenArrays = false
	}
	if o.MaxDepth != nil {
		c.Flatten.MaxDepth = *o.MaxDepth
	}
	if o.KeyCase != "" {
		c.Flatten.KeyCase = o.KeyCase
	}
}

// ApplyMerge applies CLI merge flags over the file values
func (c *Config) ApplyMerge(o MergeOverrides) {
	if o.ArrayStrategy != "" {
		c.Merge.ArrayStrategy = o.ArrayStrategy
	}
	if o.ConflictResolution != "" {
		c.Merge.ConflictResolution = o.ConflictResolution
	}
	if o.NumericHandling != "" {
		c.Merge.NumericHandling = o.NumericHandling
	}
	if o.StringHandling != "" {
		c.Merge.StringHandling = o.StringHandling
	}
	if o.MergeKey != "" {
		c.Merge.MergeKey = o.MergeKey
	}
	if o.Depth != nil {
		c.Merge.Depth = *o.Depth
	}
	if o.AllowMixedRoots != nil {
		c.Merge.AllowMixedRoots = *o.AllowMixedRoots
	}
}

// ApplySplit applies CLI split flags over the file values
func (c *Config) ApplySplit(method, value string) {
	if method != "" {
		c.Split.Method = method
	}
	if value != "" {
		c.Split.Value = value
	}
}

// MaxInputSize returns the input limit for a tool name
func (c *Config) MaxInputSize(tool string) uint64 {
	switch tool {
	case "merge":
		return uint64(c.Limits.Merge)
	case "split":
		return uint64(c.Limits.Split)
	case "flatten", "unflatten":
		return uint64(c.Limits.Flatten)
	case "convert":
		return uint64(c.Limits.Convert)
	case "merge-html":
		return uint64(c.Limits.HTML)
	default:
		return uint64(c.Limits.Convert)
	}
}
