package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/shapedup/app"
	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/config"
	"github.com/ludo-technologies/shapedup/internal/parser"
	"github.com/ludo-technologies/shapedup/service"
)

// ScanCommand represents the scan command
type ScanCommand struct {
	// Analysis
	mass          int
	fuzzy         int
	liberal       bool
	only          string
	filters       []string
	timeout       time.Duration
	maxGoroutines int

	// Report
	diff    bool
	summary bool
	number  bool

	// Output format flags
	html  bool
	json  bool
	csv   bool
	yaml  bool
	table bool

	noOpen bool

	// File selection
	recursive       bool
	includePatterns []string
	excludePatterns []string

	// Checks
	maxTotal          int
	failOnDiagnostics bool

	configFile string
}

// NewScanCommand creates a new scan command with the default settings
func NewScanCommand() *ScanCommand {
	return &ScanCommand{
		mass:      domain.DefaultMass,
		timeout:   domain.DefaultParseTimeout,
		number:    true,
		recursive: true,
	}
}

// CreateCobraCommand creates the cobra command for scanning
func (c *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Report structurally duplicated code",
		Long: `Scan files and directories for structurally duplicated code.

Every subtree whose mass (node count) reaches --mass is hashed by shape.
Subtrees that share a hash are reported together, biggest score first.
IDENTICAL matches are the same code down to names and literals; Similar
matches share only their shape.

Exit codes:
  0: scan completed and no check failed
  1: --max-total exceeded, --fail-on-diagnostics tripped, or the scan failed

Examples:
  # Scan the current directory
  shapedup scan

  # Only report bigger matches, with diffs
  shapedup scan --mass 32 --diff lib/

  # Also match code that differs by one statement
  shapedup scan --fuzzy src/

  # Per-file scores instead of matches
  shapedup scan --summary .

  # Ignore matches that contain a given call
  shapedup scan --filter "(call _ puts ___)" app/

  # Fail CI when the score grows
  shapedup scan --max-total 500 .

  # HTML report under .shapedup/reports
  shapedup scan --html .`,
		Args: cobra.ArbitraryArgs,
		RunE: c.runScan,
	}

	// Analysis flags
	cmd.Flags().IntVarP(&c.mass, domain.FlagMass, "m", c.mass, "Minimum subtree mass to consider")
	cmd.Flags().IntVarP(&c.fuzzy, domain.FlagFuzzy, "f", 0, "Also match subtrees that differ by up to N statements (0 = off)")
	cmd.Flags().Lookup(domain.FlagFuzzy).NoOptDefVal = "1"
	cmd.Flags().BoolVarP(&c.liberal, domain.FlagLiberal, "l", false, "Keep matches nested inside bigger matches when they also occur elsewhere")
	cmd.Flags().StringVarP(&c.only, domain.FlagOnly, "o", "", "Only report matches of this node type")
	cmd.Flags().StringArrayVar(&c.filters, domain.FlagFilter, nil, "Drop matches containing this pattern (repeatable)")
	cmd.Flags().DurationVar(&c.timeout, domain.FlagTimeout, c.timeout, "Per-file parse timeout")
	cmd.Flags().IntVar(&c.maxGoroutines, domain.FlagMaxGoroutines, 0, "Parallel parsers (0 = number of CPUs)")

	// Report flags
	cmd.Flags().BoolVarP(&c.diff, domain.FlagDiff, "d", false, "Show an n-way diff of each match")
	cmd.Flags().BoolVarP(&c.summary, domain.FlagSummary, "s", false, "Show per-file scores instead of matches")
	cmd.Flags().BoolVar(&c.number, domain.FlagNumber, c.number, "Number the reported matches")

	// Output format flags
	cmd.Flags().BoolVar(&c.html, "html", false, "Generate HTML report file")
	cmd.Flags().BoolVar(&c.json, "json", false, "Generate JSON report file")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Generate CSV report file")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Generate YAML report file")
	cmd.Flags().BoolVar(&c.table, "table", false, "Print matches as a table")
	cmd.Flags().BoolVar(&c.noOpen, "no-open", false, "Don't auto-open HTML in browser")

	// File selection flags
	cmd.Flags().BoolVar(&c.recursive, domain.FlagRecursive, c.recursive, "Recursively scan subdirectories")
	cmd.Flags().StringSliceVar(&c.includePatterns, domain.FlagInclude, nil, "Include file patterns (default: all supported extensions)")
	cmd.Flags().StringSliceVar(&c.excludePatterns, domain.FlagExclude, nil, "Exclude file patterns")

	// Check flags
	cmd.Flags().IntVar(&c.maxTotal, domain.FlagMaxTotal, 0, "Fail when the total score exceeds this value (0 = no limit)")
	cmd.Flags().BoolVar(&c.failOnDiagnostics, domain.FlagFailOnDiagnostics, false, "Fail when any file is skipped or parsed as the default language")

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

// runScan executes the scan
func (c *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	format, _, err := service.NewOutputFormatResolver().Determine(service.FormatFlags{
		HTML:  c.html,
		JSON:  c.json,
		CSV:   c.csv,
		YAML:  c.yaml,
		Table: c.table,
	})
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	request := c.buildRequest(args, format, explicitFlags(cmd), verbose)
	request.OutputWriter = cmd.OutOrStdout()

	useCase, err := c.buildUseCase(cmd, verbose)
	if err != nil {
		return err
	}

	_, err = useCase.Execute(cmd.Context(), request)
	return err
}

// buildRequest turns the flag values into a request. Only the flags in
// explicit override the configuration file.
func (c *ScanCommand) buildRequest(paths []string, format domain.OutputFormat, explicit map[string]bool, verbose bool) domain.DuplicationRequest {
	return domain.DuplicationRequest{
		Paths:             paths,
		Recursive:         c.recursive,
		IncludePatterns:   c.includePatterns,
		ExcludePatterns:   c.excludePatterns,
		Mass:              c.mass,
		Fuzzy:             c.fuzzy,
		Liberal:           c.liberal,
		Only:              c.only,
		Filters:           c.filters,
		Timeout:           c.timeout,
		MaxGoroutines:     c.maxGoroutines,
		OutputFormat:      format,
		NoOpen:            c.noOpen || !service.IsInteractiveEnvironment(),
		Diff:              c.diff,
		Summary:           c.summary,
		Number:            c.number,
		Verbose:           verbose,
		ShowProgress:      !verbose,
		MaxTotal:          c.maxTotal,
		FailOnDiagnostics: c.failOnDiagnostics,
		ConfigPath:        c.configFile,
		ExplicitFlags:     explicit,
	}
}

func (c *ScanCommand) buildUseCase(cmd *cobra.Command, verbose bool) (*app.ScanUseCase, error) {
	var progress domain.ProgressManager
	if !verbose {
		progress = service.NewProgressManager()
	}

	registry := parser.DefaultRegistry()
	duplicationService := service.NewDuplicationService(registry, progress).
		WithStatusWriter(cmd.ErrOrStderr())

	useCase, err := app.NewScanUseCaseBuilder().
		WithService(duplicationService).
		WithFileReader(service.NewFileReader(registry)).
		WithFormatter(service.NewDuplicationFormatter()).
		WithConfigLoader(service.NewDuplicationConfigurationLoader()).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create scan use case: %w", err)
	}
	return useCase, nil
}

// explicitFlags lists the flags set on the command line. Any format switch
// counts as setting the output format.
func explicitFlags(cmd *cobra.Command) map[string]bool {
	tracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())
	for _, name := range []string{"html", "json", "csv", "yaml", "table"} {
		if tracker.WasSet(name) {
			tracker.Set(domain.FlagFormat)
		}
	}
	return tracker.GetAll()
}

// NewScanCmd creates and returns the scan cobra command
func NewScanCmd() *cobra.Command {
	return NewScanCommand().CreateCobraCommand()
}
