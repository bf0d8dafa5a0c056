package merge

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
)

// ArrayStrategy decides how two arrays found at the same location are combined.
type ArrayStrategy string

const (
	// ArrayConcat appends source items after target items, keeping duplicates.
	ArrayConcat ArrayStrategy = "concat"
	// ArrayOverwrite replaces the target array with the source array.
	ArrayOverwrite ArrayStrategy = "overwrite"
	// ArrayUnion concatenates and drops duplicate scalar values.
	ArrayUnion ArrayStrategy = "merge"
	// ArrayMergeByKey matches object items on Options.MergeKey and shallow-merges them.
	ArrayMergeByKey ArrayStrategy = "mergeByKey"
)

// ConflictResolution decides what happens when both sides hold a scalar for a key.
type ConflictResolution string

const (
	ConflictMerge     ConflictResolution = "merge"
	ConflictOverwrite ConflictResolution = "overwrite"
)

// NumericHandling applies to number/number conflicts under ConflictMerge.
type NumericHandling string

const (
	NumericSum  NumericHandling = "sum"
	NumericKeep NumericHandling = "keep"
)

// StringHandling applies to string/string conflicts under ConflictMerge.
type StringHandling string

const (
	StringKeep        StringHandling = "keep"
	StringConcatenate StringHandling = "concatenate"
)

// Options configures a merge.
type Options struct {
	ArrayStrategy      ArrayStrategy
	ConflictResolution ConflictResolution
	NumericHandling    NumericHandling
	StringHandling     StringHandling
	// MergeKey is the field ArrayMergeByKey matches items on.
	MergeKey string
	// Depth stops object recursion below the given depth; -1 means unlimited.
	Depth int
	// AllowMixedRoots wraps documents of differing root kinds instead of failing.
	AllowMixedRoots bool
}

// DefaultOptions concatenates arrays and lets later documents overwrite scalars.
func DefaultOptions() Options {
	return Options{
		ArrayStrategy:      ArrayConcat,
		ConflictResolution: ConflictOverwrite,
		NumericHandling:    NumericKeep,
		StringHandling:     StringKeep,
		MergeKey:           "id",
		Depth:              -1,
	}
}

// ParseArrayStrategy accepts the canonical names plus kebab/snake spellings of mergeByKey.
func ParseArrayStrategy(s string) (ArrayStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concat":
		return ArrayConcat, nil
	case "overwrite", "replace":
		return ArrayOverwrite, nil
	case "merge", "union":
		return ArrayUnion, nil
	case "mergebykey", "merge-by-key", "merge_by_key":
		return ArrayMergeByKey, nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unknown array strategy '%s'", s), nil)
	}
}

// Validate checks that every option holds a known value.
func (o Options) Validate() error {
	switch o.ArrayStrategy {
	case ArrayConcat, ArrayOverwrite, ArrayUnion:
	case ArrayMergeByKey:
		if o.MergeKey == "" {
			return errors.NewValidationError("merge key is required for the mergeByKey array strategy", nil)
		}
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown array strategy '%s'", o.ArrayStrategy), nil)
	}
	switch o.ConflictResolution {
	case ConflictMerge, ConflictOverwrite:
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown conflict resolution '%s'", o.ConflictResolution), nil)
	}
	switch o.NumericHandling {
	case NumericSum, NumericKeep:
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown numeric handling '%s'", o.NumericHandling), nil)
	}
	switch o.StringHandling {
	case StringKeep, StringConcatenate:
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown string handling '%s'", o.StringHandling), nil)
	}
	if o.Depth < -1 {
		return errors.NewValidationError(fmt.Sprintf("depth must be -1 (unlimited) or greater, got %d", o.Depth), nil)
	}
	return nil
}
