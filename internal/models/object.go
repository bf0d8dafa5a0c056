package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONObject represents a JSON object. Keys keep the order in which they were
// first set, so chunk boundaries and flattened keys are reproducible.
type JSONObject struct {
	fields *orderedmap.OrderedMap[string, JSONValue]
}

// Field is a single key/value entry of a JSONObject.
type Field struct {
	Key   string
	Value JSONValue
}

// NewObject creates an empty JSONObject.
func NewObject() *JSONObject {
	return &JSONObject{fields: orderedmap.New[string, JSONValue]()}
}

// ObjectOf builds a JSONObject from fields in the given order.
func ObjectOf(fields ...Field) *JSONObject {
	o := NewObject()
	for _, f := range fields {
		o.Set(f.Key, f.Value)
	}
	return o
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	return o.fields.Get(key)
}

// Has reports whether key is present.
func (o *JSONObject) Has(key string) bool {
	_, ok := o.fields.Get(key)
	return ok
}

// Set stores value under key. Existing keys keep their position.
func (o *JSONObject) Set(key string, value JSONValue) {
	o.fields.Set(key, value)
}

// Delete removes key.
func (o *JSONObject) Delete(key string) {
	o.fields.Delete(key)
}

// Len returns the number of entries.
func (o *JSONObject) Len() int {
	return o.fields.Len()
}

// Keys returns the keys in insertion order.
func (o *JSONObject) Keys() []string {
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Fields returns the entries in insertion order.
func (o *JSONObject) Fields() []Field {
	fields := make([]Field, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{Key: pair.Key, Value: pair.Value})
	}
	return fields
}

// Each calls fn for every entry in insertion order until fn returns false.
func (o *JSONObject) Each(fn func(key string, value JSONValue) bool) {
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON writes the object compactly with its key order intact.
func (o *JSONObject) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, o)
}
