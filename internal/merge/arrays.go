package merge

import (
	"github.com/mcncl/jsonkit/internal/models"
)

// ApplyArrayStrategy combines two arrays. The result may share items with the inputs.
func ApplyArrayStrategy(strategy ArrayStrategy, target, source models.JSONArray, mergeKey string) models.JSONArray {
	switch strategy {
	case ArrayOverwrite:
		return OverwriteArrays(target, source)
	case ArrayUnion:
		return UnionArrays(target, source)
	case ArrayMergeByKey:
		return MergeArraysByKey(target, source, mergeKey)
	default:
		return ConcatArrays(target, source)
	}
}

// ConcatArrays returns target items followed by source items.
func ConcatArrays(target, source models.JSONArray) models.JSONArray {
	out := make(models.JSONArray, 0, len(target)+len(source))
	out = append(out, target...)
	return append(out, source...)
}

// OverwriteArrays returns source.
func OverwriteArrays(_, source models.JSONArray) models.JSONArray {
	out := make(models.JSONArray, len(source))
	copy(out, source)
	return out
}

// UnionArrays concatenates both arrays keeping only the first occurrence of each
// scalar value. Arrays and objects are compared by identity, so distinct
// containers are always kept.
func UnionArrays(target, source models.JSONArray) models.JSONArray {
	seen := make(map[models.ScalarKey]struct{})
	seenObjects := make(map[*models.JSONObject]struct{})
	out := make(models.JSONArray, 0, len(target)+len(source))

	for _, arr := range []models.JSONArray{target, source} {
		for _, item := range arr {
			if key, ok := models.KeyOf(item); ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			} else if obj, ok := item.(*models.JSONObject); ok {
				if _, dup := seenObjects[obj]; dup {
					continue
				}
				seenObjects[obj] = struct{}{}
			}
			out = append(out, item)
		}
	}
	return out
}

// itemKey indexes items for MergeArraysByKey. Items without a usable key get a
// positive synthetic number, so they never collide with real key values.
type itemKey struct {
	value     models.ScalarKey
	synthetic int
}

// MergeArraysByKey indexes object items of both arrays by item[mergeKey]. Items that
// share a key are shallow-merged, later fields winning; that applies to duplicates
// inside one array as well. Items that are not objects, lack the key, or whose key
// is not a scalar are kept as they are. Order follows first appearance.
func MergeArraysByKey(target, source models.JSONArray, mergeKey string) models.JSONArray {
	var order []itemKey
	entries := make(map[itemKey]models.JSONValue)
	synthetic := 0

	for _, arr := range []models.JSONArray{target, source} {
		for _, item := range arr {
			key, ok := keyFor(item, mergeKey)
			if !ok {
				synthetic++
				key = itemKey{synthetic: synthetic}
			}

			existing, found := entries[key]
			if !found {
				order = append(order, key)
				entries[key] = item
				continue
			}
			entries[key] = shallowMerge(existing.(*models.JSONObject), item.(*models.JSONObject))
		}
	}

	out := make(models.JSONArray, 0, len(order))
	for _, key := range order {
		out = append(out, entries[key])
	}
	return out
}

func keyFor(item models.JSONValue, mergeKey string) (itemKey, bool) {
	obj, ok := item.(*models.JSONObject)
	if !ok {
		return itemKey{}, false
	}
	value, ok := obj.Get(mergeKey)
	if !ok {
		return itemKey{}, false
	}
	scalar, ok := models.KeyOf(value)
	if !ok {
		return itemKey{}, false
	}
	return itemKey{value: scalar}, true
}

func shallowMerge(base, overlay *models.JSONObject) *models.JSONObject {
	out := models.NewObject()
	base.Each(func(key string, value models.JSONValue) bool {
		out.Set(key, value)
		return true
	})
	overlay.Each(func(key string, value models.JSONValue) bool {
		out.Set(key, value)
		return true
	})
	return out
}
