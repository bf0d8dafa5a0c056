package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a supported textual data format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format '%s' (expected json, jsonl or yaml)", name)
	}
}

// FormatFromPath detects the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of '%s' without a file extension", path)
	}
	return ParseFormat(ext)
}

// Extension returns the canonical file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}
