package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/shibukawa/basiccapture"
	"github.com/shibukawa/basiccapture/transform"
)

const usage = "Usage: basiccapture <input-path> <output-path> <capture-file-name>"

// Context represents the global context for commands
type Context struct {
	Verbose bool
	Quiet   bool
	Stderr  io.Writer
}

// CLI represents the command-line interface
type CLI struct {
	Config  string `help:"Configuration file path (built-in defaults when omitted)"`
	Verbose bool   `help:"Print transformation statistics" short:"v"`
	Quiet   bool   `help:"Suppress warnings" short:"q"`

	Input   string `arg:"" name:"input-path" help:"BASIC program to rewrite"`
	Output  string `arg:"" name:"output-path" help:"Where to write the rewritten program"`
	Capture string `arg:"" name:"capture-file-name" help:"File the rewritten program opens for its PRINT output"`
}

// Run rewrites the input program and writes it to the output path
func (cmd *CLI) Run(ctx *Context) error {
	opts, err := cmd.options()
	if err != nil {
		return err
	}

	assembler, err := transform.NewAssembler(opts)
	if err != nil {
		return err
	}

	if samePath(cmd.Input, cmd.Output) {
		return fmt.Errorf("%w: %s", ErrSameInputOutput, cmd.Output)
	}

	data, err := os.ReadFile(cmd.Input)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrInputFileNotExist, cmd.Input)
	} else if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", cmd.Input, err)
	}

	lines, err := transform.ReadLines(bytes.NewReader(data))
	if err != nil {
		return err
	}

	result, err := assembler.Assemble(lines, cmd.Capture)
	if err != nil {
		return fmt.Errorf("failed to transform %s: %w", cmd.Input, err)
	}

	stats := result.Stats
	if stats.Sentinel != opts.SentinelLine && !ctx.Quiet {
		color.New(color.FgYellow).Fprintf(ctx.Stderr, "Program uses line %d, terminator moved to line %d\n", stats.MaxLine, stats.Sentinel)
	}

	if err := writeProgram(cmd.Output, result); err != nil {
		return err
	}

	if ctx.Verbose {
		blue := color.New(color.FgBlue)
		blue.Fprintf(ctx.Stderr, "Read %d lines from %s (%d blank, %d without line number)\n",
			stats.LinesRead, cmd.Input, stats.BlankLines, stats.Verbatim)
		blue.Fprintf(ctx.Stderr, "Redirected %d PRINT statements to #%d, rewrote %d terminators\n",
			stats.Prints, opts.Channel, stats.Terminators)
		color.New(color.FgGreen).Fprintf(ctx.Stderr, "Wrote %s (%d lines, terminator at %d)\n",
			cmd.Output, len(result.Lines), stats.Sentinel)
	}

	return nil
}

// options returns the built-in transform options unless a config file was given
func (cmd *CLI) options() (transform.Options, error) {
	if cmd.Config == "" {
		return transform.DefaultOptions(), nil
	}

	if _, err := os.Stat(cmd.Config); os.IsNotExist(err) {
		return transform.Options{}, fmt.Errorf("%w: %s", ErrConfigFileNotExist, cmd.Config)
	}

	config, err := basiccapture.LoadConfig(cmd.Config)
	if err != nil {
		return transform.Options{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config.Options(), nil
}

// writeProgram writes the assembled program to path
func writeProgram(path string, result *transform.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if _, err := result.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", path, err)
	}

	return nil
}

// samePath reports whether both paths name the same file
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}

// exitCode carries a kong exit request out of the parser
type exitCode int

func run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("basiccapture"),
		kong.Description("Rewrite a line-numbered BASIC program so PRINT output goes to a capture file."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}

			code = int(c)
		}
	}()

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	appCtx := &Context{
		Verbose: cli.Verbose,
		Quiet:   cli.Quiet,
		Stderr:  stderr,
	}

	if err := cli.Run(appCtx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
