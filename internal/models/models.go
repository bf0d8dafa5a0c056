// Package models defines the order-preserving JSON value model shared by every
// transformation in jsonkit.
package models

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// JSONValue is a generic type to represent any JSON value.
// Concrete values are always one of: nil, bool, Number, string, JSONArray or *JSONObject.
type JSONValue interface{}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Number is a JSON number literal kept in its textual form.
type Number = json.Number

// Kind identifies which member of the JSON value sum type a value holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsContainer reports whether the kind is an array or an object.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// KindOf returns the kind of a JSON value.
func KindOf(v JSONValue) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case Number:
		return KindNumber
	case string:
		return KindString
	case JSONArray:
		return KindArray
	case *JSONObject:
		return KindObject
	default:
		return KindInvalid
	}
}

// RootKind classifies a document root as "array", "object" or "primitive".
func RootKind(v JSONValue) string {
	switch KindOf(v) {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "primitive"
	}
}

// NumberFromInt returns the Number literal for an integer.
func NumberFromInt(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// NumberFromFloat returns the shortest Number literal for a float.
func NumberFromFloat(f float64) Number {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// ValidNumber reports whether s is a number literal allowed by the JSON grammar:
// an optional minus, an integer part without leading zeros, then an optional
// fraction and exponent.
func ValidNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		start := i + 1
		if i = skipDigits(s, start); i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		if i = skipDigits(s, start); i == start {
			return false
		}
	}
	return i == len(s)
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// Document is a parsed input together with the name it was loaded from.
type Document struct {
	Name string
	Root JSONValue
}

// RootIsArray reports whether the document root is an array.
func (d Document) RootIsArray() bool {
	return KindOf(d.Root) == KindArray
}
