package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/parser"
)

// DumpCommand prints the tree shapedup builds for a file
type DumpCommand struct {
	sexp    bool
	timeout time.Duration
}

// NewDumpCommand creates a new dump command
func NewDumpCommand() *DumpCommand {
	return &DumpCommand{
		timeout: domain.DefaultParseTimeout,
	}
}

// CreateCobraCommand creates the cobra command for tree dumps
func (d *DumpCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the syntax tree of a file",
		Long: `Print the normalized syntax tree shapedup compares for a file.

Each line shows a node type, its starting line and its literal atoms. The
node types are the names --only and --filter patterns refer to.

Examples:
  # Indented tree
  shapedup dump lib/user.rb

  # One s-expression, ready to paste into a --filter pattern
  shapedup dump --sexp lib/user.rb`,
		Args: cobra.ExactArgs(1),
		RunE: d.runDump,
	}

	cmd.Flags().BoolVar(&d.sexp, "sexp", false, "Print the tree as a single s-expression")
	cmd.Flags().DurationVar(&d.timeout, domain.FlagTimeout, d.timeout, "Parse timeout")

	return cmd
}

func (d *DumpCommand) runDump(cmd *cobra.Command, args []string) error {
	p := parser.New(parser.DefaultRegistry(), d.timeout)

	result, err := p.ParseFile(cmd.Context(), args[0])
	if errors.Is(err, parser.ErrTimeout) {
		return domain.NewParseTimeoutError(args[0], err)
	}
	if err != nil {
		return domain.NewParseFailureError(args[0], err)
	}

	if result.Fallback {
		fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("unknown file type, parsed as %s", result.Language.Name))
	}

	out := cmd.OutOrStdout()
	if d.sexp {
		fmt.Fprintln(out, result.Forest.Sexp(result.Root))
		return nil
	}
	result.Forest.Accept(result.Root, parser.NewPrinterVisitor(out))
	return nil
}

// NewDumpCmd creates and returns the dump cobra command
func NewDumpCmd() *cobra.Command {
	return NewDumpCommand().CreateCobraCommand()
}
