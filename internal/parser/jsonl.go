package parser

import (
	"bytes"
	"fmt"

	stderrors "errors"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// ParseJSONL parses JSON Lines text: one JSON value per line, whitespace trimmed,
// blank lines skipped. The values are returned in line order.
func ParseJSONL(data []byte) (models.JSONArray, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}

	values := models.JSONArray{}
	lineNo := 0
	for len(data) > 0 {
		lineNo++
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		value, err := Parse(bytes.NewReader(line))
		if err != nil {
			message := err.Error()
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				message = appErr.Message
			}
			return nil, errors.NewParsingError(fmt.Sprintf("line %d: %s", lineNo, message), errors.ErrInvalidJSON)
		}
		values = append(values, value)
	}
	return values, nil
}
