package merge

import (
	"fmt"
	"strconv"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Accumulator merges documents one at a time, in the order they are added.
//
// All documents must share a root kind (array, object or primitive). When they do
// not and AllowMixedRoots is set, the result wraps every document under
// "file1", "file2", ... instead of merging them.
type Accumulator struct {
	m      *merger
	docs   []models.Document
	kind   string
	mixed  bool
	result models.JSONValue
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator(opts Options) *Accumulator {
	return &Accumulator{m: &merger{opts: opts}}
}

// Add merges doc into the running result. A root kind that differs from the first
// document's fails with a root type mismatch unless mixed roots are allowed.
func (a *Accumulator) Add(doc models.Document) error {
	kind := models.RootKind(doc.Root)

	if len(a.docs) == 0 {
		a.kind = kind
		switch kind {
		case "array":
			a.result = models.JSONArray{}
		case "object":
			a.result = models.NewObject()
		default:
			a.result = doc.Root
			a.docs = append(a.docs, doc)
			return nil
		}
	} else if kind != a.kind {
		if !a.m.opts.AllowMixedRoots {
			first := a.docs[0]
			return errors.NewRootTypeMismatchError(fmt.Sprintf(
				"'%s' has a%s %s root but '%s' has a%s %s root",
				first.Name, article(a.kind), a.kind, doc.Name, article(kind), kind,
			))
		}
		a.mixed = true
		a.result = nil
	}

	a.docs = append(a.docs, doc)
	if a.mixed {
		return nil
	}
	a.result = a.m.merge(a.result, doc.Root, 0)
	return nil
}

// Len returns the number of documents added so far.
func (a *Accumulator) Len() int {
	return len(a.docs)
}

// Mixed reports whether documents with differing root kinds were wrapped.
func (a *Accumulator) Mixed() bool {
	return a.mixed
}

// Result returns the merged value.
func (a *Accumulator) Result() (models.JSONValue, error) {
	if len(a.docs) == 0 {
		return nil, errors.NewValidationError("no documents to merge", errors.ErrNoInput)
	}
	if a.mixed {
		wrapped := models.NewObject()
		for i, doc := range a.docs {
			wrapped.Set("file"+strconv.Itoa(i+1), models.Clone(doc.Root))
		}
		return wrapped, nil
	}
	return a.result, nil
}

// Documents merges docs in order. The first failure aborts the whole merge and no
// partial result is returned.
func Documents(docs []models.Document, opts Options) (models.JSONValue, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	acc := NewAccumulator(opts)
	for _, doc := range docs {
		if err := acc.Add(doc); err != nil {
			return nil, err
		}
	}
	return acc.Result()
}

func article(kind string) string {
	if kind == "array" || kind == "object" {
		return "n"
	}
	return ""
}
