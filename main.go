package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/input"
	"github.com/mcncl/jsonkit/internal/logger"
	"github.com/mcncl/jsonkit/internal/output"
	"github.com/mcncl/jsonkit/internal/worker"
)

// CLI defines the command-line interface
type CLI struct {
	Config   string           `help:"Path to a config file. Defaults to the nearest .jsonkit.yml." type:"path"`
	LogLevel string           `help:"Log level: debug, info, warn or error." name:"log-level"`
	LogJSON  bool             `help:"Write logs as JSON." name:"log-json"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`

	Flatten   FlattenCmd   `cmd:"" help:"Flatten nested JSON into a single-level object."`
	Unflatten UnflattenCmd `cmd:"" help:"Rebuild nested JSON from a flattened object."`
	Merge     MergeCmd     `cmd:"" help:"Deep-merge JSON documents in order."`
	Split     SplitCmd     `cmd:"" help:"Split a JSON array or object into chunk files."`
	Convert   ConvertCmd   `cmd:"" help:"Convert between JSON, JSON Lines and YAML."`
	MergeHTML MergeHTMLCmd `cmd:"" name:"merge-html" help:"Merge HTML documents into one."`
}

// Context holds the runtime context shared by every command
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Logger logger.Logger
	Output *output.Writer
	Stdin  io.Reader
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	var cli CLI
	// Parse CLI arguments with Kong
	parser := kong.Must(&cli,
		kong.Name("jsonkit"),
		kong.Description("Flatten, merge, split and convert JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsonkit version %s", Version)},
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		parser.FatalIfErrorf(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx, err := newContext(ctx, &cli, os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = kctx.Run(appCtx)
	}
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonkit %s --help\n", kctx.Command())

		stop()
		os.Exit(1)
	}
}

// newContext loads the config and builds the logger and output writer.
func newContext(ctx context.Context, cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogJSON {
		cfg.Log.JSON = true
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     stderr,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})

	writer := output.NewWriter(log)
	writer.Stdout = stdout
	writer.DisplayLimit = uint64(cfg.Limits.Display)
	writer.ClipboardLimit = cfg.Limits.Clipboard

	return &Context{
		Ctx:    logger.ContextWithLogger(ctx, log),
		Config: cfg,
		Logger: log,
		Output: writer,
		Stdin:  stdin,
		Stderr: stderr,
	}, nil
}

// readInputs reads every path with the tool's acceptance rule, or stdin when
// no path is given.
func (c *Context) readInputs(tool string, paths []string) ([]worker.Input, error) {
	rule := input.RuleFor(tool, c.Config.MaxInputSize(tool), int(c.Config.Limits.ReadChunk))

	if len(paths) == 0 {
		if f, ok := c.Stdin.(*os.File); ok {
			info, err := f.Stat()
			if err != nil {
				return nil, errors.NewInputError("failed to access stdin", err)
			}
			if info.Mode()&os.ModeCharDevice != 0 {
				// Terminal is interactive (not piped)
				return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
			}
		}
		data, err := rule.ReadStream(c.Ctx, c.Stdin, "stdin")
		if err != nil {
			return nil, err
		}
		return []worker.Input{{Name: "stdin", Data: data}}, nil
	}

	inputs := make([]worker.Input, 0, len(paths))
	for _, path := range paths {
		data, err := rule.ReadFile(c.Ctx, path)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("read input", "tool", tool, "path", path, "bytes", len(data))
		inputs = append(inputs, worker.Input{Name: path, Data: data})
	}
	return inputs, nil
}

func (c *Context) formatter() *formatter.Formatter {
	return &formatter.Formatter{Indent: c.Config.Indent(), YAMLIndent: 2}
}

// progress logs worker progress at debug level.
func (c *Context) progress(operation string) worker.ProgressFunc {
	return func(percent float64) {
		c.Logger.Debug("progress", "operation", operation, "percent", fmt.Sprintf("%.0f", percent))
	}
}

// deliver writes a textual result and optionally copies it to the clipboard.
func (c *Context) deliver(target, prefix, ext string, data []byte, copyToClipboard bool) error {
	path, err := c.Output.Emit(target, prefix, ext, data)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(c.Stderr, "Result written to %s\n", path)
	}
	if copyToClipboard {
		return c.Output.Copy(data)
	}
	return nil
}

func optionalPath(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
