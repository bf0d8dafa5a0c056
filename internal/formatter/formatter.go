package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"gopkg.in/yaml.v3"
)

// Formatter renders JSON values as JSON, JSON Lines or YAML text
type Formatter struct {
	// Indent is used for JSON output; empty means compact.
	Indent string
	// YAMLIndent is the number of spaces per YAML nesting level.
	YAMLIndent int
}

// NewFormatter creates a new Formatter instance with two-space indentation
func NewFormatter() *Formatter {
	return &Formatter{Indent: "  ", YAMLIndent: 2}
}

// Format renders v in the requested format
func (f *Formatter) Format(v models.JSONValue, format parser.Format) ([]byte, error) {
	switch format {
	case parser.FormatJSON:
		return f.JSON(v)
	case parser.FormatJSONL:
		return f.JSONL(v)
	case parser.FormatYAML:
		return f.YAML(v)
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}

// JSON renders v as a JSON document, keeping object key order
func (f *Formatter) JSON(v models.JSONValue) ([]byte, error) {
	compact, err := models.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	if f.Indent == "" {
		return compact, nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", f.Indent); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	return out.Bytes(), nil
}

// JSONL renders an array as one compact JSON value per line. Any other value
// becomes a single line.
func (f *Formatter) JSONL(v models.JSONValue) ([]byte, error) {
	items, ok := v.(models.JSONArray)
	if !ok {
		items = models.JSONArray{v}
	}

	var out []byte
	var err error
	for _, item := range items {
		if out, err = models.AppendJSON(out, item); err != nil {
			return nil, fmt.Errorf("failed to encode JSON line: %w", err)
		}
		out = append(out, '\n')
	}
	return out, nil
}

// YAML renders v as a block-style YAML document with key order preserved.
// Strings that would read back as another type are quoted.
func (f *Formatter) YAML(v models.JSONValue) ([]byte, error) {
	node, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	indent := f.YAMLIndent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return out.Bytes(), nil
}

func toYAMLNode(v models.JSONValue) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}, nil
	case models.Number:
		tag := "!!int"
		if strings.ContainsAny(string(val), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(val)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}, nil
	case models.JSONArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *models.JSONObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		val.Each(func(key string, item models.JSONValue) bool {
			var child *yaml.Node
			if child, err = toYAMLNode(item); err != nil {
				return false
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child)
			return true
		})
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", v)
	}
}
