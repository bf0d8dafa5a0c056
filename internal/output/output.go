// Package output names, writes and copies the artifacts produced by each tool.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/logger"
)

// DefaultClipboardLimit is the largest text, in characters, copied to the clipboard.
const DefaultClipboardLimit = 1_000_000

var mimeTypes = map[string]string{
	".json":   "application/json",
	".jsonl":  "application/x-ndjson",
	".ndjson": "application/x-ndjson",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".html":   "text/html",
	".htm":    "text/html",
}

// ArtifactName returns "<prefix>-<epoch millis><ext>", e.g. merged-1700000000000.json.
func ArtifactName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%d%s", prefix, now.UnixMilli(), ext)
}

// ChunkName names the n-th (zero-based) split chunk.
func ChunkName(n int) string {
	return fmt.Sprintf("chunk_%d.json", n+1)
}

// MIMEType returns the media type for an artifact name.
func MIMEType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// Writer delivers results to stdout, files or the clipboard.
type Writer struct {
	Stdout io.Writer
	// DisplayLimit is the largest result printed to Stdout; 0 means unlimited.
	DisplayLimit uint64
	// ClipboardLimit is in characters; 0 uses DefaultClipboardLimit.
	ClipboardLimit int
	Clipboard      func(text string) error
	Now            func() time.Time
	Logger         logger.Logger
}

// NewWriter returns a Writer using stdout and the system clipboard.
func NewWriter(log logger.Logger) *Writer {
	return &Writer{
		Stdout:         os.Stdout,
		ClipboardLimit: DefaultClipboardLimit,
		Clipboard:      clipboard.WriteAll,
		Now:            time.Now,
		Logger:         log,
	}
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Writer) log() logger.Logger {
	if w.Logger == nil {
		return logger.NewLogger(logger.DiscardConfig())
	}
	return w.Logger
}

// Emit delivers data to target. An empty target prints to Stdout. A directory
// target, or one ending in a path separator, receives "<prefix>-<epoch><ext>".
// Anything else is used as the file path. The written path is returned, empty
// for Stdout.
func (w *Writer) Emit(target, prefix, ext string, data []byte) (string, error) {
	if target == "" {
		return "", w.Display(data)
	}

	path := target
	if isDirTarget(target) {
		path = filepath.Join(target, ArtifactName(prefix, ext, w.now()))
	}
	if err := w.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Display prints data to Stdout unless it exceeds DisplayLimit.
func (w *Writer) Display(data []byte) error {
	if w.DisplayLimit > 0 && uint64(len(data)) > w.DisplayLimit {
		return errors.NewTooLargeError(
			fmt.Sprintf("result is %s, the display limit is %s; use --output to write it to a file",
				humanize.IBytes(uint64(len(data))), humanize.IBytes(w.DisplayLimit)),
			nil,
		)
	}
	out := w.Stdout
	if out == nil {
		out = os.Stdout
	}
	if _, err := out.Write(data); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := io.WriteString(out, "\n"); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	return nil
}

// WriteFile writes data to path, creating parent directories.
func (w *Writer) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", dir), err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	w.log().Info("wrote artifact", "path", path, "size", humanize.IBytes(uint64(len(data))), "type", MIMEType(path))
	return nil
}

// WriteChunks writes chunk_1.json, chunk_2.json, ... into dir in order.
func (w *Writer) WriteChunks(dir string, chunks [][]byte) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		path := filepath.Join(dir, ChunkName(i))
		if err := w.WriteFile(path, chunk); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Copy places text on the clipboard unless it is longer than ClipboardLimit characters.
func (w *Writer) Copy(text []byte) error {
	limit := w.ClipboardLimit
	if limit <= 0 {
		limit = DefaultClipboardLimit
	}
	if n := utf8.RuneCount(text); n > limit {
		return errors.NewTooLargeError(
			fmt.Sprintf("result has %s characters, the clipboard limit is %s; download it instead",
				humanize.Comma(int64(n)), humanize.Comma(int64(limit))),
			errors.ErrClipboardTooLarge,
		)
	}

	copyFn := w.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	if err := copyFn(string(text)); err != nil {
		return errors.NewOutputError("failed to copy to clipboard", err)
	}
	w.log().Info("copied result to clipboard", "characters", utf8.RuneCount(text))
	return nil
}

func isDirTarget(target string) bool {
	if strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/") {
		return true
	}
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}
