package worker

import (
	"context"
	"fmt"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/flatten"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/merge"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/split"
)

// Result is what a completed task hands back.
type Result struct {
	// Value is the produced JSON value. Split leaves it nil and fills Chunks.
	Value models.JSONValue
	// Text is Value serialized for output.
	Text []byte
	// Chunks and ChunkTexts hold split output in order.
	Chunks     []models.JSONValue
	ChunkTexts [][]byte
	// Documents is the number of documents processed.
	Documents int
	// Mixed is set when merged documents were wrapped per file.
	Mixed bool
}

// formatOf picks the parser for a document name, falling back to JSON.
func formatOf(name string) parser.Format {
	if format, err := parser.FormatFromPath(name); err == nil {
		return format
	}
	return parser.FormatJSON
}

func formatterOr(f *formatter.Formatter) *formatter.Formatter {
	if f == nil {
		return formatter.NewFormatter()
	}
	return f
}

// MergeTask deep-merges every posted document into one value.
type MergeTask struct {
	Options   merge.Options
	Formatter *formatter.Formatter
	// Total is the number of documents that will be posted, used for progress.
	Total int

	acc *merge.Accumulator
}

// NewMergeTask creates a MergeTask expecting total documents.
func NewMergeTask(opts merge.Options, total int) *MergeTask {
	return &MergeTask{Options: opts, Total: total}
}

func (t *MergeTask) Process(ctx context.Context, name string, data []byte, progress ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.acc == nil {
		if err := t.Options.Validate(); err != nil {
			return err
		}
		t.acc = merge.NewAccumulator(t.Options)
	}

	doc, err := parser.ParseDocument(name, data, formatOf(name))
	if err != nil {
		return err
	}
	if err := t.acc.Add(doc); err != nil {
		return err
	}
	if t.Total > 0 {
		progress(float64(min(t.acc.Len(), t.Total)) * 100 / float64(t.Total))
	}
	return nil
}

func (t *MergeTask) Finalize(ctx context.Context, _ ProgressFunc) (*Result, error) {
	if t.acc == nil {
		if err := t.Options.Validate(); err != nil {
			return nil, err
		}
		return nil, errors.NewValidationError("no documents to merge", errors.ErrNoInput)
	}
	value, err := t.acc.Result()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := formatterOr(t.Formatter).JSON(value)
	if err != nil {
		return nil, errors.NewOutputError("failed to serialize merged result", err)
	}
	return &Result{Value: value, Text: text, Documents: t.acc.Len(), Mixed: t.acc.Mixed()}, nil
}

// single holds the one document accepted by split and flatten tasks.
type single struct {
	doc *models.Document
}

func (s *single) accept(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.doc != nil {
		return errors.NewValidationError(
			fmt.Sprintf("only one document is accepted, got '%s' after '%s'", name, s.doc.Name), nil)
	}
	doc, err := parser.ParseDocument(name, data, formatOf(name))
	if err != nil {
		return err
	}
	s.doc = &doc
	return nil
}

func (s *single) root() (models.JSONValue, error) {
	if s.doc == nil {
		return nil, errors.NewValidationError("no document was provided", errors.ErrNoInput)
	}
	return s.doc.Root, nil
}

// SplitTask partitions the array or object found at Path.
type SplitTask struct {
	Path      string
	Method    split.Method
	Formatter *formatter.Formatter

	single
}

func (t *SplitTask) Process(ctx context.Context, name string, data []byte, _ ProgressFunc) error {
	if err := t.Method.Validate(); err != nil {
		return err
	}
	return t.accept(ctx, name, data)
}

func (t *SplitTask) Finalize(ctx context.Context, progress ProgressFunc) (*Result, error) {
	root, err := t.root()
	if err != nil {
		return nil, err
	}
	chunks, err := split.Document(root, t.Path, t.Method, split.ProgressFunc(progress))
	if err != nil {
		return nil, err
	}

	f := formatterOr(t.Formatter)
	texts := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := f.JSON(chunk)
		if err != nil {
			return nil, errors.NewOutputError(fmt.Sprintf("failed to serialize chunk %d", i+1), err)
		}
		texts = append(texts, text)
	}
	return &Result{Chunks: chunks, ChunkTexts: texts, Documents: 1}, nil
}

// FlattenTask flattens one document, or rebuilds it when Reverse is set.
type FlattenTask struct {
	Options   flatten.Options
	Reverse   bool
	Formatter *formatter.Formatter

	single
}

func (t *FlattenTask) Process(ctx context.Context, name string, data []byte, _ ProgressFunc) error {
	if err := t.Options.Validate(); err != nil {
		return err
	}
	return t.accept(ctx, name, data)
}

func (t *FlattenTask) Finalize(ctx context.Context, progress ProgressFunc) (*Result, error) {
	root, err := t.root()
	if err != nil {
		return nil, err
	}

	var value models.JSONValue
	if t.Reverse {
		flat, ok := root.(*models.JSONObject)
		if !ok {
			return nil, errors.NewValidationError(
				fmt.Sprintf("unflatten needs an object root, got %s", models.KindOf(root)), errors.ErrNotContainer)
		}
		if value, err = flatten.Unflatten(flat, t.Options.Delimiter); err != nil {
			return nil, err
		}
		progress(100)
	} else {
		value = flatten.FlattenWithProgress(root, t.Options, progress)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := formatterOr(t.Formatter).JSON(value)
	if err != nil {
		return nil, errors.NewOutputError("failed to serialize flattened result", err)
	}
	return &Result{Value: value, Text: text, Documents: 1}, nil
}
