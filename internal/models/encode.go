package models

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// AppendJSON appends the compact JSON encoding of v to buf.
// Object keys are written in insertion order and HTML characters are left unescaped.
func AppendJSON(buf []byte, v JSONValue) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		if val {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case Number:
		if val == "" {
			return append(buf, '0'), nil
		}
		if !ValidNumber(string(val)) {
			return nil, fmt.Errorf("invalid JSON number %q", string(val))
		}
		return append(buf, val...), nil
	case string:
		return appendString(buf, val)
	case JSONArray:
		buf = append(buf, '[')
		var err error
		for i, item := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			if buf, err = AppendJSON(buf, item); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case *JSONObject:
		buf = append(buf, '{')
		var err error
		first := true
		val.Each(func(key string, item JSONValue) bool {
			if !first {
				buf = append(buf, ',')
			}
			first = false
			if buf, err = appendString(buf, key); err != nil {
				return false
			}
			buf = append(buf, ':')
			buf, err = AppendJSON(buf, item)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", v)
	}
}

// Marshal returns the compact JSON encoding of v.
func Marshal(v JSONValue) ([]byte, error) {
	return AppendJSON(nil, v)
}

// EncodedSize returns the length in bytes of the compact UTF-8 encoding of v.
func EncodedSize(v JSONValue) (int, error) {
	b, err := AppendJSON(nil, v)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return append(buf, bytes.TrimRight(out.Bytes(), "\n")...), nil
}
