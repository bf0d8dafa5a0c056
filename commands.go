package main

import (
	"fmt"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/convert"
	"github.com/mcncl/jsonkit/internal/htmlmerge"
	"github.com/mcncl/jsonkit/internal/worker"
)

// FlattenCmd flattens one document
type FlattenCmd struct {
	Input     string `arg:"" optional:"" help:"JSON file to flatten. Reads stdin when omitted." type:"path"`
	Output    string `help:"File or directory to write to. Writes to stdout when omitted." short:"o"`
	Delimiter string `help:"Separator placed between object keys." short:"d"`
	NoArrays  bool   `help:"Keep arrays whole instead of flattening their elements."`
	MaxDepth  *int   `help:"Stop flattening at this depth; --max-depth=-1 is unlimited."`
	KeyCase   string `help:"Rewrite keys as snake, camel, lower_camel or kebab."`
	Copy      bool   `help:"Copy the result to the clipboard."`
}

func (cmd *FlattenCmd) Run(ctx *Context) error {
	ctx.Config.ApplyFlatten(config.FlattenOverrides{
		Delimiter: cmd.Delimiter,
		NoArrays:  cmd.NoArrays,
		MaxDepth:  cmd.MaxDepth,
		KeyCase:   cmd.KeyCase,
	})
	opts := ctx.Config.FlattenOptions()
	if err := opts.Validate(); err != nil {
		return err
	}

	inputs, err := ctx.readInputs("flatten", optionalPath(cmd.Input))
	if err != nil {
		return err
	}
	task := &worker.FlattenTask{Options: opts, Formatter: ctx.formatter()}
	result, err := worker.Run(ctx.Ctx, task, inputs, ctx.progress("flatten"))
	if err != nil {
		return err
	}
	return ctx.deliver(cmd.Output, "flattened", ".json", result.Text, cmd.Copy)
}

// UnflattenCmd rebuilds nested JSON from a flattened object
type UnflattenCmd struct {
	Input     string `arg:"" optional:"" help:"Flattened JSON file. Reads stdin when omitted." type:"path"`
	Output    string `help:"File or directory to write to. Writes to stdout when omitted." short:"o"`
	Delimiter string `help:"Separator placed between object keys." short:"d"`
	Copy      bool   `help:"Copy the result to the clipboard."`
}

func (cmd *UnflattenCmd) Run(ctx *Context) error {
	ctx.Config.ApplyFlatten(config.FlattenOverrides{Delimiter: cmd.Delimiter})

	inputs, err := ctx.readInputs("unflatten", optionalPath(cmd.Input))
	if err != nil {
		return err
	}
	task := &worker.FlattenTask{Options: ctx.Config.FlattenOptions(), Reverse: true, Formatter: ctx.formatter()}
	result, err := worker.Run(ctx.Ctx, task, inputs, ctx.progress("unflatten"))
	if err != nil {
		return err
	}
	return ctx.deliver(cmd.Output, "unflattened", ".json", result.Text, cmd.Copy)
}

// MergeCmd deep-merges documents
type MergeCmd struct {
	Files           []string `arg:"" help:"Files to merge, in order. Later files win conflicts." type:"path"`
	Output          string   `help:"File or directory to write to. Writes to stdout when omitted." short:"o"`
	ArrayStrategy   string   `help:"How arrays combine: concat, overwrite, merge or mergeByKey." short:"a"`
	Conflict        string   `help:"How scalar conflicts resolve: merge or overwrite."`
	Numbers         string   `help:"Number conflicts under --conflict=merge: sum or keep."`
	Strings         string   `help:"String conflicts under --conflict=merge: keep or concatenate."`
	MergeKey        string   `help:"Field that identifies array items for mergeByKey." short:"k"`
	Depth           *int     `help:"Stop merging objects below this depth; --depth=-1 is unlimited."`
	AllowMixedRoots *bool    `help:"Wrap each file under file1, file2, ... when root types differ." negatable:""`
	Copy            bool     `help:"Copy the result to the clipboard."`
}

func (cmd *MergeCmd) Run(ctx *Context) error {
	ctx.Config.ApplyMerge(config.MergeOverrides{
		ArrayStrategy:      cmd.ArrayStrategy,
		ConflictResolution: cmd.Conflict,
		NumericHandling:    cmd.Numbers,
		StringHandling:     cmd.Strings,
		MergeKey:           cmd.MergeKey,
		Depth:              cmd.Depth,
		AllowMixedRoots:    cmd.AllowMixedRoots,
	})
	opts := ctx.Config.MergeOptions()
	if err := opts.Validate(); err != nil {
		return err
	}

	inputs, err := ctx.readInputs("merge", cmd.Files)
	if err != nil {
		return err
	}
	task := worker.NewMergeTask(opts, len(inputs))
	task.Formatter = ctx.formatter()
	result, err := worker.Run(ctx.Ctx, task, inputs, ctx.progress("merge"))
	if err != nil {
		return err
	}
	ctx.Logger.Info("merged documents", "count", result.Documents, "mixed_roots", result.Mixed)
	return ctx.deliver(cmd.Output, "merged", ".json", result.Text, cmd.Copy)
}

// SplitCmd splits an array or object into chunk files
type SplitCmd struct {
	Input   string `arg:"" optional:"" help:"JSON file to split. Reads stdin when omitted." type:"path"`
	Output  string `help:"Directory for chunk_N.json files." short:"o" default:"."`
	Path    string `help:"Dot path to the array or object to split, e.g. data.items or results[0].rows." short:"p"`
	Items   string `help:"Items per chunk." xor:"method"`
	Chunks  string `help:"Number of chunks." xor:"method"`
	MaxSize string `help:"Largest chunk size, e.g. 512KB or 1MiB." xor:"method"`
}

func (cmd *SplitCmd) Run(ctx *Context) error {
	switch {
	case cmd.Items != "":
		ctx.Config.ApplySplit("items", cmd.Items)
	case cmd.Chunks != "":
		ctx.Config.ApplySplit("chunks", cmd.Chunks)
	case cmd.MaxSize != "":
		ctx.Config.ApplySplit("size", cmd.MaxSize)
	}
	method, err := ctx.Config.SplitMethod()
	if err != nil {
		return err
	}

	inputs, err := ctx.readInputs("split", optionalPath(cmd.Input))
	if err != nil {
		return err
	}
	task := &worker.SplitTask{Path: cmd.Path, Method: method, Formatter: ctx.formatter()}
	result, err := worker.Run(ctx.Ctx, task, inputs, ctx.progress("split"))
	if err != nil {
		return err
	}

	paths, err := ctx.Output.WriteChunks(cmd.Output, result.ChunkTexts)
	if err != nil {
		return err
	}
	ctx.Logger.Info("split complete", "method", method.String(), "chunks", len(paths))
	fmt.Fprintf(ctx.Stderr, "Wrote %d chunk(s) to %s\n", len(paths), cmd.Output)
	return nil
}

// ConvertCmd converts between JSON, JSON Lines and YAML
type ConvertCmd struct {
	Input  string `arg:"" optional:"" help:"File to convert. Reads stdin when omitted (requires --from)." type:"path"`
	Output string `help:"File or directory to write to. Writes to stdout when omitted (requires --to)." short:"o"`
	From   string `help:"Source format: json, jsonl or yaml. Detected from the input extension by default."`
	To     string `help:"Target format: json, jsonl or yaml. Detected from the output extension by default."`
	Copy   bool   `help:"Copy the result to the clipboard."`
}

func (cmd *ConvertCmd) Run(ctx *Context) error {
	from, to, err := convert.Formats(cmd.Input, cmd.Output, cmd.From, cmd.To)
	if err != nil {
		return err
	}

	inputs, err := ctx.readInputs("convert", optionalPath(cmd.Input))
	if err != nil {
		return err
	}
	converter := &convert.Converter{Formatter: ctx.formatter()}
	out, err := converter.Convert(inputs[0].Name, inputs[0].Data, from, to)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("converted", "from", from, "to", to, "bytes", len(out))
	return ctx.deliver(cmd.Output, "converted", to.Extension(), out, cmd.Copy)
}

// MergeHTMLCmd merges HTML documents
type MergeHTMLCmd struct {
	Files  []string `arg:"" help:"HTML files to merge, in order." type:"path"`
	Output string   `help:"File or directory to write to. Writes to stdout when omitted." short:"o"`
	Copy   bool     `help:"Copy the result to the clipboard."`
}

func (cmd *MergeHTMLCmd) Run(ctx *Context) error {
	inputs, err := ctx.readInputs("merge-html", cmd.Files)
	if err != nil {
		return err
	}

	docs := make([]htmlmerge.Document, 0, len(inputs))
	for _, in := range inputs {
		docs = append(docs, htmlmerge.Document{Name: in.Name, Data: in.Data})
	}
	out, err := htmlmerge.Merge(docs)
	if err != nil {
		return err
	}
	return ctx.deliver(cmd.Output, "merged", ".html", out, cmd.Copy)
}
