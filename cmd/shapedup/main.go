package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/shapedup/internal/version"
)

const rootLong = `shapedup finds code that has the same shape: subtrees of the syntax tree
that match node for node once names and literals are set aside.

Each match is scored by its mass (the size of the matched subtree) times the
number of copies, and identical copies count double. The total score is a
single number to drive down over time.

Features:
  • Structural hashing over tree-sitter syntax trees (Ruby, Python, Go, JS/TS, ...)
  • Fuzzy matching of near-duplicates that differ by a few statements
  • N-way diffs of each match
  • Text, table, JSON, YAML, CSV and HTML reports`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shapedup",
		Short:         "Find structurally duplicated code",
		Long:          rootLong,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewLanguagesCmd())
	rootCmd.AddCommand(NewDumpCmd())

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
