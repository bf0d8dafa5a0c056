// Package split partitions a JSON array or object into ordered chunks.
package split

import (
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/pathresolver"
)

// ProgressFunc receives the percentage of items processed so far.
type ProgressFunc func(percent float64)

// Split partitions target, which must be an array or object, using method.
// Every chunk has the same kind as target. Concatenating the chunks in order
// reproduces target.
func Split(target models.JSONValue, method Method) ([]models.JSONValue, error) {
	return SplitWithProgress(target, method, nil)
}

// SplitWithProgress is Split with progress reporting. Options are validated before
// any item is touched.
func SplitWithProgress(target models.JSONValue, method Method, progress ProgressFunc) ([]models.JSONValue, error) {
	if err := method.Validate(); err != nil {
		return nil, err
	}

	var entries entrySet
	switch v := target.(type) {
	case models.JSONArray:
		entries = arrayEntries(v)
	case *models.JSONObject:
		entries = objectEntries(v.Fields())
	default:
		return nil, errors.NewValidationError("split target must be an array or object, got "+models.KindOf(target).String(), errors.ErrNotContainer)
	}

	tracker := newTracker(entries.Len(), progress)
	var bounds [][2]int
	switch method.Kind {
	case ByItemCount:
		bounds = fixedBounds(entries.Len(), method.Count, tracker)
	case ByChunkCount:
		bounds = fixedBounds(entries.Len(), itemsPerChunk(entries.Len(), method.Count), tracker)
	case ByMaxSize:
		var err error
		if bounds, err = sizeBounds(entries, method.MaxBytes, tracker); err != nil {
			return nil, err
		}
	}

	chunks := make([]models.JSONValue, 0, len(bounds))
	for _, b := range bounds {
		chunks = append(chunks, entries.Chunk(b[0], b[1]))
	}
	return chunks, nil
}

// Document splits the value at path inside root. Without a path the root itself
// must be an array.
func Document(root models.JSONValue, path string, method Method, progress ProgressFunc) ([]models.JSONValue, error) {
	if err := method.Validate(); err != nil {
		return nil, err
	}

	target := root
	if path == "" {
		if _, ok := root.(models.JSONArray); !ok {
			return nil, errors.NewRootNotArrayError(models.KindOf(root).String())
		}
	} else {
		var err error
		if target, err = pathresolver.ResolveContainer(root, path); err != nil {
			return nil, err
		}
	}
	return SplitWithProgress(target, method, progress)
}

// itemsPerChunk is ceil(total/n), which never yields more than n chunks.
func itemsPerChunk(total, n int) int {
	if total == 0 {
		return 1
	}
	return (total + n - 1) / n
}

func fixedBounds(total, size int, tracker *tracker) [][2]int {
	var bounds [][2]int
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		bounds = append(bounds, [2]int{start, end})
		tracker.advance(end)
	}
	return bounds
}

// sizeBounds greedily fills chunks so their compact encoding stays within maxBytes.
// An item that alone exceeds maxBytes gets a chunk of its own.
func sizeBounds(entries entrySet, maxBytes int64, tracker *tracker) ([][2]int, error) {
	var bounds [][2]int
	start := 0
	// size of the open chunk: brackets plus items plus separating commas
	current := int64(2)

	for i := 0; i < entries.Len(); i++ {
		itemSize, err := entries.Size(i)
		if err != nil {
			return nil, err
		}
		next := current + itemSize
		if i > start {
			next++
		}
		if next > maxBytes && i > start {
			bounds = append(bounds, [2]int{start, i})
			start = i
			next = 2 + itemSize
		}
		current = next
		tracker.advance(i + 1)
	}
	if start < entries.Len() {
		bounds = append(bounds, [2]int{start, entries.Len()})
	}
	return bounds, nil
}
