// Package input accepts and reads the files handed to each tool.
package input

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/mcncl/jsonkit/internal/errors"
)

// DefaultChunkSize is the read size used when a Rule leaves ChunkSize unset.
const DefaultChunkSize = 1 << 20

// Rule describes what a tool accepts.
type Rule struct {
	Tool       string
	Extensions []string
	MaxSize    uint64
	ChunkSize  int
}

var toolExtensions = map[string][]string{
	"merge":      {".json", ".yaml", ".yml"},
	"split":      {".json"},
	"flatten":    {".json"},
	"unflatten":  {".json"},
	"convert":    {".json", ".jsonl", ".ndjson", ".yaml", ".yml"},
	"merge-html": {".html", ".htm"},
}

// RuleFor returns the Rule for a tool with the given limits.
func RuleFor(tool string, maxSize uint64, chunkSize int) Rule {
	return Rule{Tool: tool, Extensions: toolExtensions[tool], MaxSize: maxSize, ChunkSize: chunkSize}
}

// Accept checks the extension and size of a file before anything is read.
func (r Rule) Accept(path string, size int64) error {
	if len(r.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		accepted := false
		for _, e := range r.Extensions {
			if ext == e {
				accepted = true
				break
			}
		}
		if !accepted {
			return errors.NewInputError(
				fmt.Sprintf("'%s' is not accepted by %s (expected %s)", filepath.Base(path), r.Tool, strings.Join(r.Extensions, ", ")),
				errors.ErrUnsupportedFile,
			)
		}
	}
	if r.MaxSize > 0 && size > 0 && uint64(size) > r.MaxSize {
		return errors.NewInputError(
			fmt.Sprintf("'%s' is %s, the %s limit is %s", filepath.Base(path),
				humanize.IBytes(uint64(size)), r.Tool, humanize.IBytes(r.MaxSize)),
			errors.ErrFileTooLarge,
		)
	}
	return nil
}

// ReadFile validates and reads path in chunks, checking ctx between chunks.
func (r Rule) ReadFile(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewInputError(fmt.Sprintf("'%s' does not exist", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewFileReadError(fmt.Sprintf("cannot access '%s'", path), err)
	}
	if info.IsDir() {
		return nil, errors.NewInputError(fmt.Sprintf("'%s' is a directory", path), errors.ErrInvalidFilePath)
	}
	if err := r.Accept(path, info.Size()); err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("'%s' is empty", path), errors.ErrFileEmpty)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileReadError(fmt.Sprintf("cannot open '%s'", path), err)
	}
	defer func() { _ = f.Close() }()

	return r.read(ctx, f, path, int(info.Size()))
}

// ReadStream reads an unsized stream such as stdin, enforcing MaxSize while reading.
func (r Rule) ReadStream(ctx context.Context, reader io.Reader, name string) ([]byte, error) {
	data, err := r.read(ctx, reader, name, 0)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("empty input received from %s", name), errors.ErrEmptyInput)
	}
	return data, nil
}

func (r Rule) read(ctx context.Context, reader io.Reader, name string, sizeHint int) ([]byte, error) {
	chunkSize := r.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	data := make([]byte, 0, sizeHint)
	chunk := make([]byte, chunkSize)
	sniffed := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewFileReadError(fmt.Sprintf("reading '%s' was cancelled", name), err)
		}

		n, err := io.ReadFull(reader, chunk)
		data = append(data, chunk[:n]...)
		if r.MaxSize > 0 && uint64(len(data)) > r.MaxSize {
			return nil, errors.NewInputError(
				fmt.Sprintf("'%s' exceeds the %s limit of %s", name, r.Tool, humanize.IBytes(r.MaxSize)),
				errors.ErrFileTooLarge,
			)
		}
		if !sniffed && len(data) > 0 {
			if err := sniff(name, data); err != nil {
				return nil, err
			}
			sniffed = true
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return data, nil
		}
		if err != nil {
			return nil, errors.NewFileReadError(fmt.Sprintf("failed to read '%s'", name), err)
		}
	}
}

// sniff rejects content that is not text.
func sniff(name string, data []byte) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return errors.NewInputError(
		fmt.Sprintf("'%s' looks like %s, not text", name, detected.String()),
		errors.ErrUnsupportedFile,
	)
}
