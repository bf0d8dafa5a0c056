// Package convert translates documents between JSON, JSON Lines and YAML.
package convert

import (
	"fmt"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// Converter parses one format and renders another.
type Converter struct {
	Formatter *formatter.Formatter
}

// NewConverter returns a Converter with the default formatter.
func NewConverter() *Converter {
	return &Converter{Formatter: formatter.NewFormatter()}
}

// Convert parses data named name as from and renders it as to.
func (c *Converter) Convert(name string, data []byte, from, to parser.Format) ([]byte, error) {
	doc, err := parser.ParseDocument(name, data, from)
	if err != nil {
		return nil, err
	}
	return c.Render(doc.Root, to)
}

// Render writes an already parsed value in the requested format.
func (c *Converter) Render(v models.JSONValue, to parser.Format) ([]byte, error) {
	f := c.Formatter
	if f == nil {
		f = formatter.NewFormatter()
	}
	out, err := f.Format(v, to)
	if err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to render %s", to), err)
	}
	return out, nil
}

// Formats resolves the source and target formats. Explicit names win over
// detection from the input and output file extensions.
func Formats(inputPath, outputPath, from, to string) (parser.Format, parser.Format, error) {
	source, err := resolve(inputPath, from, "--from")
	if err != nil {
		return "", "", err
	}
	target, err := resolve(outputPath, to, "--to")
	if err != nil {
		return "", "", err
	}
	return source, target, nil
}

func resolve(path, explicit, flag string) (parser.Format, error) {
	if explicit != "" {
		format, err := parser.ParseFormat(explicit)
		if err != nil {
			return "", errors.NewValidationError(err.Error(), nil)
		}
		return format, nil
	}
	if path == "" {
		return "", errors.NewValidationError(fmt.Sprintf("%s is required when reading stdin or writing stdout", flag), nil)
	}
	format, err := parser.FormatFromPath(path)
	if err != nil {
		return "", errors.NewValidationError(fmt.Sprintf("%s (use %s)", err.Error(), flag), nil)
	}
	return format, nil
}
