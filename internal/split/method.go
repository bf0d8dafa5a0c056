package split

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mcncl/jsonkit/internal/errors"
)

// MethodKind selects how a target is partitioned.
type MethodKind string

const (
	// ByItemCount emits chunks of a fixed number of items.
	ByItemCount MethodKind = "items"
	// ByChunkCount emits at most a fixed number of chunks.
	ByChunkCount MethodKind = "chunks"
	// ByMaxSize bounds each chunk by its serialized size in bytes.
	ByMaxSize MethodKind = "size"
)

// Method is a split policy with its parameter.
type Method struct {
	Kind     MethodKind
	Count    int
	MaxBytes int64
}

// Items returns a Method emitting chunks of n items.
func Items(n int) Method { return Method{Kind: ByItemCount, Count: n} }

// Chunks returns a Method emitting at most n chunks.
func Chunks(n int) Method { return Method{Kind: ByChunkCount, Count: n} }

// MaxSize returns a Method bounding chunks to bytes of serialized JSON.
func MaxSize(bytes int64) Method { return Method{Kind: ByMaxSize, MaxBytes: bytes} }

// Validate checks the parameter for the method kind.
func (m Method) Validate() error {
	switch m.Kind {
	case ByItemCount, ByChunkCount:
		if m.Count <= 0 {
			return errors.NewValidationError(fmt.Sprintf("%s count must be a positive integer, got %d", m.Kind, m.Count), nil)
		}
	case ByMaxSize:
		if m.MaxBytes <= 0 {
			return errors.NewValidationError(fmt.Sprintf("maximum chunk size must be greater than zero, got %d bytes", m.MaxBytes), nil)
		}
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown split method '%s'", m.Kind), nil)
	}
	return nil
}

func (m Method) String() string {
	if m.Kind == ByMaxSize {
		return fmt.Sprintf("size(%s)", humanize.IBytes(uint64(m.MaxBytes)))
	}
	return fmt.Sprintf("%s(%d)", m.Kind, m.Count)
}

// ParseMethod builds a Method from textual input such as ("items", "100") or
// ("size", "512KB"). Counts must be integers; sizes accept humanized units.
func ParseMethod(kind, value string) (Method, error) {
	value = strings.TrimSpace(value)
	switch MethodKind(strings.ToLower(strings.TrimSpace(kind))) {
	case ByItemCount, ByChunkCount:
		n, err := strconv.Atoi(value)
		if err != nil {
			return Method{}, errors.NewValidationError(fmt.Sprintf("%s count '%s' is not an integer", kind, value), err)
		}
		m := Method{Kind: MethodKind(strings.ToLower(strings.TrimSpace(kind))), Count: n}
		return m, m.Validate()
	case ByMaxSize:
		if strings.HasPrefix(value, "-") {
			return Method{}, errors.NewValidationError(fmt.Sprintf("maximum chunk size '%s' must be greater than zero", value), nil)
		}
		bytes, err := humanize.ParseBytes(value)
		if err != nil {
			return Method{}, errors.NewValidationError(fmt.Sprintf("maximum chunk size '%s' is not a valid size", value), err)
		}
		m := MaxSize(int64(bytes))
		return m, m.Validate()
	default:
		return Method{}, errors.NewValidationError(fmt.Sprintf("unknown split method '%s' (expected items, chunks or size)", kind), nil)
	}
}
