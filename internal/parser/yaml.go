package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"

	stderrors "errors"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML stream. A single document yields its value; a stream of
// several documents yields an array with one element per document.
func ParseYAML(data []byte) (models.JSONValue, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs models.JSONArray
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if stderrors.Is(err, io.EOF) {
				break
			}
			return nil, errors.NewParsingError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidYAML)
		}
		value, err := fromYAMLNode(&node)
		if err != nil {
			return nil, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
		}
		docs = append(docs, value)
	}

	switch len(docs) {
	case 0:
		return nil, errors.NewParsingError("no YAML documents found", errors.ErrEmptyInput)
	case 1:
		return docs[0], nil
	default:
		return docs, nil
	}
}

func fromYAMLNode(n *yaml.Node) (models.JSONValue, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		arr := make(models.JSONArray, 0, len(n.Content))
		for _, child := range n.Content {
			value, err := fromYAMLNode(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := models.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				if err := mergeYAMLKeys(obj, value); err != nil {
					return nil, err
				}
				continue
			}
			if key.Kind == yaml.AliasNode {
				key = key.Alias
			}
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := fromYAMLNode(value)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

// mergeYAMLKeys applies a "<<" merge key: fields from the referenced mappings are
// added unless the mapping already defines them.
func mergeYAMLKeys(obj *models.JSONObject, value *yaml.Node) error {
	sources := []*yaml.Node{value}
	if value.Kind == yaml.SequenceNode {
		sources = value.Content
	}
	for _, src := range sources {
		merged, err := fromYAMLNode(src)
		if err != nil {
			return err
		}
		mergedObj, ok := merged.(*models.JSONObject)
		if !ok {
			return fmt.Errorf("line %d: merge key must reference a mapping", src.Line)
		}
		mergedObj.Each(func(key string, v models.JSONValue) bool {
			if !obj.Has(key) {
				obj.Set(key, v)
			}
			return true
		})
	}
	return nil
}

func fromYAMLScalar(n *yaml.Node) (models.JSONValue, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return models.NumberFromInt(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return models.Number(fmt.Sprintf("%d", u)), nil
		}
		return nil, fmt.Errorf("line %d: integer %q out of range", n.Line, n.Value)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("line %d: %s cannot be represented in JSON", n.Line, n.Value)
		}
		return models.NumberFromFloat(f), nil
	default:
		// Strings, timestamps and binary scalars keep their literal text.
		return n.Value, nil
	}
}
