// Package pathresolver locates a value inside a JSON document using dot/bracket
// paths such as "data.results[0].items".
package pathresolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Segment is one dot-separated part of a path: an optional property name followed
// by zero or more array indices.
type Segment struct {
	Key     string
	Indices []int
}

// Parse splits a path into segments. An empty path has no segments.
func Parse(path string) ([]Segment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	parts := strings.Split(path, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty segment in path '%s'", path)
		}
		seg, err := ParseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("invalid path '%s': %w", path, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// ParseSegment parses a single segment such as "items[0][1]".
func ParseSegment(part string) (Segment, error) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		return Segment{Key: part}, nil
	}

	seg := Segment{Key: part[:open]}
	rest := part[open:]
	for rest != "" {
		if rest[0] != '[' {
			return Segment{}, fmt.Errorf("unexpected %q after index in segment '%s'", rest, part)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Segment{}, fmt.Errorf("unclosed bracket in segment '%s'", part)
		}
		index, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil || index < 0 {
			return Segment{}, fmt.Errorf("index %q in segment '%s' is not a non-negative integer", rest[1:end], part)
		}
		seg.Indices = append(seg.Indices, index)
		rest = rest[end+1:]
	}
	return seg, nil
}

// Resolve walks path from root and returns the value found there. Resolution stops
// at the first missing property or index, or at a malformed path, and reports false.
func Resolve(root models.JSONValue, path string) (models.JSONValue, bool) {
	segments, err := Parse(path)
	if err != nil {
		return nil, false
	}

	current := root
	for _, seg := range segments {
		if seg.Key != "" {
			obj, ok := current.(*models.JSONObject)
			if !ok {
				return nil, false
			}
			if current, ok = obj.Get(seg.Key); !ok {
				return nil, false
			}
		}
		for _, index := range seg.Indices {
			arr, ok := current.(models.JSONArray)
			if !ok || index >= len(arr) {
				return nil, false
			}
			current = arr[index]
		}
	}
	return current, true
}

// ResolveContainer resolves path and requires the result to be an array or object.
// Failures are reported as invalid target path errors naming the path.
func ResolveContainer(root models.JSONValue, path string) (models.JSONValue, error) {
	target, ok := Resolve(root, path)
	if !ok {
		return nil, errors.NewInvalidTargetPathError(path, errors.ErrPathNotFound)
	}
	if !models.KindOf(target).IsContainer() {
		return nil, errors.NewInvalidTargetPathError(path, errors.ErrNotContainer)
	}
	return target, nil
}
