package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	stderrors "errors" // Standard errors package

	json "github.com/goccy/go-json"
	"github.com/mcncl/jsonkit/internal/errors" // Custom errors package
	"github.com/mcncl/jsonkit/internal/models"
)

// Parse converts a single JSON document from an io.Reader into a JSONValue.
// Object key order is preserved and numbers are kept as models.Number.
func Parse(reader io.Reader) (models.JSONValue, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read JSON input", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	root, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return nil, syntaxError(err)
	}

	// Anything other than EOF after the first value is either a second
	// document or garbage.
	if _, err := decoder.Token(); err == nil {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	// The token stream skips separators, so misplaced commas and colons only
	// show up in a full syntax check.
	if !json.Valid(data) {
		return nil, errors.NewParsingError("JSON syntax error: missing or misplaced ',' or ':'", errors.ErrInvalidJSON)
	}

	return root, nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.JSONValue, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseBytes parses JSON from a byte slice
func ParseBytes(data []byte) (models.JSONValue, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	return Parse(bytes.NewReader(data))
}

// ParseDocument parses data in the given format and names any failure after the
// document it came from.
func ParseDocument(name string, data []byte, format Format) (models.Document, error) {
	var (
		root models.JSONValue
		err  error
	)
	switch format {
	case FormatJSON:
		root, err = ParseBytes(data)
	case FormatJSONL:
		root, err = ParseJSONL(data)
	case FormatYAML:
		root, err = ParseYAML(data)
	default:
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("cannot parse '%s' as %s", name, format),
			errors.ErrUnsupportedFile,
		)
	}
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("'%s': %s", name, appErr.Message),
				appErr.Err,
			)
		}
		return models.Document{}, errors.NewParsingError(fmt.Sprintf("'%s'", name), err)
	}
	return models.Document{Name: name, Root: root}, nil
}

func decodeValue(dec *json.Decoder) (models.JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (models.JSONValue, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := models.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				obj.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return obj, nil
		case '[':
			arr := models.JSONArray{}
			for dec.More() {
				value, err := decodeValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case json.Number:
		if !models.ValidNumber(string(t)) {
			return nil, fmt.Errorf("invalid number literal %q", string(t))
		}
		return models.Number(t), nil
	case float64:
		return models.NumberFromFloat(t), nil
	case string, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// unexpectedEOF keeps a truncated document from being reported as empty input.
func unexpectedEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func syntaxError(err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxErr.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}
