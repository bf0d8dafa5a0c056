package models

import (
	"math/big"
	"strconv"
	"strings"
)

// Clone returns a deep copy of v.
func Clone(v JSONValue) JSONValue {
	switch val := v.(type) {
	case JSONArray:
		out := make(JSONArray, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case *JSONObject:
		out := NewObject()
		val.Each(func(key string, item JSONValue) bool {
			out.Set(key, Clone(item))
			return true
		})
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal. Object key order is ignored
// and numbers compare by value.
func Equal(a, b JSONValue) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindArray:
		aa, ba := a.(JSONArray), b.(JSONArray)
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ao, bo := a.(*JSONObject), b.(*JSONObject)
		if ao.Len() != bo.Len() {
			return false
		}
		equal := true
		ao.Each(func(key string, av JSONValue) bool {
			bv, ok := bo.Get(key)
			equal = ok && Equal(av, bv)
			return equal
		})
		return equal
	case KindNumber:
		return canonicalNumber(a.(Number)) == canonicalNumber(b.(Number))
	default:
		return a == b
	}
}

// ScalarKey is a comparable identity for scalar values, used wherever values are
// deduplicated or indexed.
type ScalarKey struct {
	Kind  Kind
	Value string
}

// KeyOf returns the ScalarKey of a scalar value. It returns false for arrays and objects.
func KeyOf(v JSONValue) (ScalarKey, bool) {
	switch val := v.(type) {
	case nil:
		return ScalarKey{Kind: KindNull}, true
	case bool:
		return ScalarKey{Kind: KindBool, Value: strconv.FormatBool(val)}, true
	case Number:
		return ScalarKey{Kind: KindNumber, Value: canonicalNumber(val)}, true
	case string:
		return ScalarKey{Kind: KindString, Value: val}, true
	default:
		return ScalarKey{}, false
	}
}

// canonicalNumber compares integer literals exactly and everything else as float64.
func canonicalNumber(n Number) string {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return i.String()
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return s
}
