// Package flatten converts nested JSON values into single-level objects keyed by
// composite paths, and back.
package flatten

import (
	"fmt"
	"strconv"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// KeyCase controls how object keys are rewritten while flattening.
type KeyCase string

const (
	KeyCasePreserve   KeyCase = ""
	KeyCaseSnake      KeyCase = "snake"
	KeyCaseCamel      KeyCase = "camel"
	KeyCaseLowerCamel KeyCase = "lower_camel"
	KeyCaseKebab      KeyCase = "kebab"
)

// Options configures Flatten.
type Options struct {
	// Delimiter joins a parent path and an object key. Array indices are always
	// appended as "[i]" without a delimiter.
	Delimiter string
	// FlattenArrays recurses into arrays; when false arrays are recorded whole.
	FlattenArrays bool
	// MaxDepth stops recursion at the given depth; -1 means unlimited.
	MaxDepth int
	// KeyCase rewrites every object key segment.
	KeyCase KeyCase
}

// DefaultOptions returns "." as delimiter, array flattening on and no depth limit.
func DefaultOptions() Options {
	return Options{
		Delimiter:     ".",
		FlattenArrays: true,
		MaxDepth:      -1,
	}
}

// Validate rejects out-of-range options.
func (o Options) Validate() error {
	if o.MaxDepth < -1 {
		return errors.NewValidationError(fmt.Sprintf("max depth must be -1 (unlimited) or greater, got %d", o.MaxDepth), nil)
	}
	switch o.KeyCase {
	case KeyCasePreserve, KeyCaseSnake, KeyCaseCamel, KeyCaseLowerCamel, KeyCaseKebab:
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown key case '%s'", o.KeyCase), nil)
	}
	return nil
}

// Flatten walks value depth-first and records every leaf under its composite key.
// Scalar and empty-array roots are recorded under the empty key. Empty nested
// containers are kept verbatim. An empty object root flattens to an empty object.
func Flatten(value models.JSONValue, opts Options) *models.JSONObject {
	return FlattenWithProgress(value, opts, nil)
}

// FlattenWithProgress is Flatten with a callback receiving the percentage of
// top-level entries processed.
func FlattenWithProgress(value models.JSONValue, opts Options, progress func(percent float64)) *models.JSONObject {
	f := &flattener{opts: opts, out: models.NewObject()}

	if opts.MaxDepth == 0 {
		f.out.Set("", value)
		report(progress, 1, 1)
		return f.out
	}

	switch v := value.(type) {
	case *models.JSONObject:
		total := v.Len()
		done := 0
		v.Each(func(key string, child models.JSONValue) bool {
			f.walk(child, f.formatKey(key), 1)
			done++
			report(progress, done, total)
			return true
		})
	case models.JSONArray:
		if !opts.FlattenArrays || len(v) == 0 {
			f.out.Set("", v)
			break
		}
		for i, child := range v {
			f.walk(child, "["+strconv.Itoa(i)+"]", 1)
			report(progress, i+1, len(v))
		}
	default:
		f.out.Set("", v)
	}
	return f.out
}

type flattener struct {
	opts Options
	out  *models.JSONObject
}

func (f *flattener) walk(value models.JSONValue, prefix string, depth int) {
	if f.opts.MaxDepth != -1 && depth >= f.opts.MaxDepth {
		f.out.Set(prefix, value)
		return
	}

	switch v := value.(type) {
	case models.JSONArray:
		if !f.opts.FlattenArrays || len(v) == 0 {
			f.out.Set(prefix, v)
			return
		}
		for i, child := range v {
			f.walk(child, prefix+"["+strconv.Itoa(i)+"]", depth+1)
		}
	case *models.JSONObject:
		if v.Len() == 0 {
			f.out.Set(prefix, v)
			return
		}
		v.Each(func(key string, child models.JSONValue) bool {
			f.walk(child, f.join(prefix, key), depth+1)
			return true
		})
	default:
		f.out.Set(prefix, v)
	}
}

// join is only used below the root, so an empty parent key still gets its delimiter.
func (f *flattener) join(prefix, key string) string {
	return prefix + f.opts.Delimiter + f.formatKey(key)
}

func (f *flattener) formatKey(key string) string {
	switch f.opts.KeyCase {
	case KeyCaseSnake:
		return strcase.ToSnake(key)
	case KeyCaseCamel:
		return strcase.ToCamel(key)
	case KeyCaseLowerCamel:
		return strcase.ToLowerCamel(key)
	case KeyCaseKebab:
		return strcase.ToKebab(key)
	default:
		return key
	}
}

func report(progress func(float64), done, total int) {
	if progress == nil || total == 0 {
		return
	}
	progress(float64(done) * 100 / float64(total))
}
