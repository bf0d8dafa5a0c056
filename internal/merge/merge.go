// Package merge deep-merges JSON values with configurable array and conflict
// strategies, and drives multi-document merges.
package merge

import (
	"math"
	"math/big"
	"strconv"

	"github.com/mcncl/jsonkit/internal/models"
)

// Merge combines source into a copy of target. Neither input is modified.
func Merge(target, source models.JSONValue, opts Options) models.JSONValue {
	m := &merger{opts: opts}
	return m.merge(models.Clone(target), source, 0)
}

// merger merges into a target it owns; source values are cloned as they are adopted.
type merger struct {
	opts Options
}

func (m *merger) merge(target, source models.JSONValue, depth int) models.JSONValue {
	// Arrays take the array strategy at any level, the root included.
	if src, ok := source.(models.JSONArray); ok {
		tgt, _ := target.(models.JSONArray)
		return m.arrays(tgt, src)
	}

	if m.opts.Depth != -1 && depth > m.opts.Depth {
		return target
	}

	src, ok := source.(*models.JSONObject)
	if !ok {
		return m.scalar(target, true, source)
	}

	tgt, ok := target.(*models.JSONObject)
	if !ok {
		tgt = models.NewObject()
	}

	src.Each(func(key string, value models.JSONValue) bool {
		existing, exists := tgt.Get(key)
		switch v := value.(type) {
		case *models.JSONObject:
			base, ok := existing.(*models.JSONObject)
			if !ok {
				base = models.NewObject()
			}
			tgt.Set(key, m.merge(base, v, depth+1))
		case models.JSONArray:
			base, _ := existing.(models.JSONArray)
			tgt.Set(key, m.arrays(base, v))
		default:
			tgt.Set(key, m.scalar(existing, exists, v))
		}
		return true
	})
	return tgt
}

func (m *merger) arrays(target, source models.JSONArray) models.JSONArray {
	if target == nil {
		target = models.JSONArray{}
	}
	owned := models.Clone(source).(models.JSONArray)
	return ApplyArrayStrategy(m.opts.ArrayStrategy, target, owned, m.opts.MergeKey)
}

func (m *merger) scalar(existing models.JSONValue, exists bool, value models.JSONValue) models.JSONValue {
	if !exists || m.opts.ConflictResolution == ConflictOverwrite {
		return value
	}

	switch v := value.(type) {
	case models.Number:
		if e, ok := existing.(models.Number); ok && m.opts.NumericHandling == NumericSum {
			return addNumbers(e, v)
		}
	case string:
		if e, ok := existing.(string); ok && m.opts.StringHandling == StringConcatenate {
			return e + v
		}
	}
	return value
}

// addNumbers sums exactly when both sides are integers and falls back to float64.
func addNumbers(a, b models.Number) models.Number {
	x, okX := new(big.Int).SetString(string(a), 10)
	y, okY := new(big.Int).SetString(string(b), 10)
	if okX && okY {
		return models.Number(x.Add(x, y).String())
	}

	fx, errX := strconv.ParseFloat(string(a), 64)
	fy, errY := strconv.ParseFloat(string(b), 64)
	if errX != nil || errY != nil {
		return b
	}
	if sum := fx + fy; !math.IsInf(sum, 0) {
		return models.NumberFromFloat(sum)
	}
	// float64 overflow; big.Float keeps the exponent range.
	bx, _ := new(big.Float).SetString(string(a))
	by, _ := new(big.Float).SetString(string(b))
	return models.Number(bx.Add(bx, by).Text('g', -1))
}
