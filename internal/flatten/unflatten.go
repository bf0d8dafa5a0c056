package flatten

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/pathresolver"
)

type nodeKind int

const (
	nodeUnset nodeKind = iota
	nodeLeaf
	nodeObject
	nodeArray
)

// node is a mutable tree used while rebuilding; arrays may be filled out of order.
type node struct {
	kind   nodeKind
	leaf   models.JSONValue
	keys   []string
	fields map[string]*node
	items  []*node
}

type step struct {
	key     string
	index   int
	isIndex bool
}

// sparse array indices are allowed up to keys*sparseFactor + sparseSlack.
const (
	sparseFactor = 8
	sparseSlack  = 1024
)

// Unflatten rebuilds a nested value from a flattened object. Keys are split on
// delimiter and "[i]" suffixes become array indices; indices never written are null.
// Keys that address the same location both as a leaf and as a container are rejected,
// and so are indices far beyond the number of keys.
//
// An object whose only key is "" is read as a flattened scalar or empty-array root,
// so {"":1} unflattens to 1 rather than to itself.
func Unflatten(flat *models.JSONObject, delimiter string) (models.JSONValue, error) {
	if delimiter == "" {
		return nil, errors.NewValidationError("delimiter must not be empty when unflattening", nil)
	}
	if flat.Len() == 1 {
		if v, ok := flat.Get(""); ok {
			return models.Clone(v), nil
		}
	}

	root := &node{}
	limit := flat.Len()*sparseFactor + sparseSlack
	var err error
	flat.Each(func(key string, value models.JSONValue) bool {
		err = root.insert(key, splitKey(key, delimiter), models.Clone(value), limit)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	if root.kind == nodeUnset {
		return models.NewObject(), nil
	}
	return root.build(), nil
}

func splitKey(key, delimiter string) []step {
	var steps []step
	for _, part := range strings.Split(key, delimiter) {
		seg, err := pathresolver.ParseSegment(part)
		if err != nil {
			// Brackets that are not indices belong to the key itself.
			steps = append(steps, step{key: part})
			continue
		}
		if seg.Key != "" || len(seg.Indices) == 0 {
			steps = append(steps, step{key: seg.Key})
		}
		for _, i := range seg.Indices {
			steps = append(steps, step{index: i, isIndex: true})
		}
	}
	return steps
}

func (n *node) insert(fullKey string, steps []step, value models.JSONValue, limit int) error {
	if len(steps) == 0 {
		if n.kind != nodeUnset {
			return conflict(fullKey)
		}
		n.kind = nodeLeaf
		n.leaf = value
		return nil
	}

	s := steps[0]
	if s.isIndex {
		if err := n.become(nodeArray, fullKey); err != nil {
			return err
		}
		if s.index > limit {
			return errors.NewValidationError(
				fmt.Sprintf("array index %d in key '%s' is too sparse (limit %d)", s.index, fullKey, limit), nil)
		}
		for len(n.items) <= s.index {
			n.items = append(n.items, &node{})
		}
		return n.items[s.index].insert(fullKey, steps[1:], value, limit)
	}

	if err := n.become(nodeObject, fullKey); err != nil {
		return err
	}
	child, ok := n.fields[s.key]
	if !ok {
		child = &node{}
		n.fields[s.key] = child
		n.keys = append(n.keys, s.key)
	}
	return child.insert(fullKey, steps[1:], value, limit)
}

func (n *node) become(kind nodeKind, fullKey string) error {
	switch n.kind {
	case nodeUnset:
		n.kind = kind
		if kind == nodeObject {
			n.fields = make(map[string]*node)
		}
		return nil
	case kind:
		return nil
	default:
		return conflict(fullKey)
	}
}

func (n *node) build() models.JSONValue {
	switch n.kind {
	case nodeLeaf:
		return n.leaf
	case nodeObject:
		obj := models.NewObject()
		for _, key := range n.keys {
			obj.Set(key, n.fields[key].build())
		}
		return obj
	case nodeArray:
		arr := make(models.JSONArray, len(n.items))
		for i, item := range n.items {
			arr[i] = item.build()
		}
		return arr
	default:
		return nil
	}
}

func conflict(key string) error {
	return errors.NewValidationError(fmt.Sprintf("key '%s' conflicts with another flattened key", key), nil)
}
