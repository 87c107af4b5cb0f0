package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// NewLanguagesCmd creates the command that lists the built-in languages
func NewLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and file extensions",
		Long: `List every built-in language with its file extensions.

Files with an unrecognised extension that are named explicitly on the
command line are parsed as the default language.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLanguages(cmd, parser.DefaultRegistry())
		},
	}
}

func writeLanguages(cmd *cobra.Command, registry *parser.Registry) error {
	table := tablewriter.NewTable(cmd.OutOrStdout())
	table.Header([]string{"Language", "Extensions", "Default"})

	for _, lang := range registry.Languages() {
		def := ""
		if registry.Default() == lang {
			def = "yes"
		}
		exts := make([]string, len(lang.Extensions))
		for i, ext := range lang.Extensions {
			exts[i] = "." + ext
		}
		if err := table.Append([]string{lang.Name, strings.Join(exts, " "), def}); err != nil {
			return err
		}
	}
	return table.Render()
}
