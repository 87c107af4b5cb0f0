package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Default analysis settings
const (
	DefaultMass          = 16
	DefaultParseTimeout  = 10 * time.Second
	DefaultMaxGoroutines = 0 // 0 means runtime.NumCPU()
)

// DuplicateLocation is one member of a duplicate match
type DuplicateLocation struct {
	File    string `json:"file" yaml:"file" csv:"file"`
	Line    int    `json:"line" yaml:"line" csv:"line"`
	EndLine int    `json:"end_line" yaml:"end_line" csv:"end_line"`
	Fuzzy   bool   `json:"fuzzy" yaml:"fuzzy" csv:"fuzzy"`
}

// String returns "file:line", suffixed with " (FUZZY)" for synthetic members
func (l DuplicateLocation) String() string {
	if l.Fuzzy {
		return fmt.Sprintf("%s:%d (FUZZY)", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// DuplicateItem is one reported group of structurally equal code
type DuplicateItem struct {
	ID         string              `json:"id" yaml:"id" csv:"id"`
	Hash       uint32              `json:"hash" yaml:"hash" csv:"hash"`
	Type       string              `json:"type" yaml:"type" csv:"type"`
	Identical  bool                `json:"identical" yaml:"identical" csv:"identical"`
	Bonus      string              `json:"bonus,omitempty" yaml:"bonus,omitempty" csv:"bonus"`
	Mass       int                 `json:"mass" yaml:"mass" csv:"mass"`
	Similarity float64             `json:"similarity" yaml:"similarity" csv:"similarity"`
	Locations  []DuplicateLocation `json:"locations" yaml:"locations" csv:"-"`
	Sources    []string            `json:"sources,omitempty" yaml:"sources,omitempty" csv:"-"`

	// CommentMarker is used to split leading comments when rendering a diff
	CommentMarker string `json:"-" yaml:"-" csv:"-"`
}

// Kind returns "IDENTICAL" or "Similar"
func (i DuplicateItem) Kind() string {
	if i.Identical {
		return "IDENTICAL"
	}
	return "Similar"
}

// FileScore is one file's share of the total score
type FileScore struct {
	File  string  `json:"file" yaml:"file" csv:"file"`
	Score float64 `json:"score" yaml:"score" csv:"score"`
}

// Diagnostic describes a file that was skipped or handled specially
type Diagnostic struct {
	File    string `json:"file" yaml:"file"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// NewDiagnostic attaches a per-file error to file. Domain errors keep their
// code and bare message.
func NewDiagnostic(file string, err error) Diagnostic {
	var de DomainError
	if errors.As(err, &de) {
		return Diagnostic{File: file, Code: de.Code, Message: de.Message}
	}
	return Diagnostic{File: file, Code: ErrCodeParseFailure, Message: err.Error()}
}

// String returns "[file] message"
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.File, d.Message)
}

// IsSkip reports whether the file contributed nothing to the result
func (d Diagnostic) IsSkip() bool {
	return d.Code == ErrCodeParseFailure || d.Code == ErrCodeParseTimeout
}

// DuplicationStatistics summarizes a run
type DuplicationStatistics struct {
	FilesAnalyzed  int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSkipped   int `json:"files_skipped" yaml:"files_skipped"`
	NodesCollected int `json:"nodes_collected" yaml:"nodes_collected"`
	SyntheticNodes int `json:"synthetic_nodes" yaml:"synthetic_nodes"`
	TotalItems     int `json:"total_items" yaml:"total_items"`
	IdenticalItems int `json:"identical_items" yaml:"identical_items"`
	SimilarItems   int `json:"similar_items" yaml:"similar_items"`
}

// DuplicationOptions records the settings a response was produced with
type DuplicationOptions struct {
	Mass    int      `json:"mass" yaml:"mass"`
	Fuzzy   int      `json:"fuzzy" yaml:"fuzzy"`
	Liberal bool     `json:"liberal" yaml:"liberal"`
	Only    string   `json:"only,omitempty" yaml:"only,omitempty"`
	Filters []string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Diff    bool     `json:"diff" yaml:"diff"`
	Summary bool     `json:"summary" yaml:"summary"`
	Number  bool     `json:"number" yaml:"number"`
}

// DuplicationRequest represents a request for duplication analysis
type DuplicationRequest struct {
	// Input parameters
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Analysis configuration
	Mass          int
	Fuzzy         int
	Liberal       bool
	Only          string
	Filters       []string
	Timeout       time.Duration
	MaxGoroutines int

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	OutputDir    string
	NoOpen       bool
	Diff         bool
	Summary      bool
	Number       bool
	Verbose      bool
	ShowProgress bool

	// Check configuration
	MaxTotal          int
	FailOnDiagnostics bool

	// Configuration file
	ConfigPath string

	// ExplicitFlags names the options set on the command line; only these
	// override values from a configuration file
	ExplicitFlags map[string]bool
}

// Option names shared by the CLI flags and request merging
const (
	FlagMass              = "mass"
	FlagFuzzy             = "fuzzy"
	FlagLiberal           = "liberal"
	FlagOnly              = "only"
	FlagFilter            = "filter"
	FlagTimeout           = "timeout"
	FlagMaxGoroutines     = "max-goroutines"
	FlagFormat            = "format"
	FlagDiff              = "diff"
	FlagSummary           = "summary"
	FlagNumber            = "number"
	FlagRecursive         = "recursive"
	FlagInclude           = "include"
	FlagExclude           = "exclude"
	FlagMaxTotal          = "max-total"
	FlagFailOnDiagnostics = "fail-on-diagnostics"
)

// Options returns the report-relevant settings of the request
func (req DuplicationRequest) Options() DuplicationOptions {
	return DuplicationOptions{
		Mass:    req.Mass,
		Fuzzy:   req.Fuzzy,
		Liberal: req.Liberal,
		Only:    req.Only,
		Filters: req.Filters,
		Diff:    req.Diff,
		Summary: req.Summary,
		Number:  req.Number,
	}
}

// Validate checks the request for invalid option values
func (req DuplicationRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}
	if req.Mass < 1 {
		return NewValidationError("mass must be >= 1")
	}
	if req.Fuzzy < 0 {
		return NewValidationError("fuzzy must be >= 0")
	}
	if req.Timeout <= 0 {
		return NewValidationError("timeout must be positive")
	}
	if req.MaxGoroutines < 0 {
		return NewValidationError("max goroutines must be >= 0")
	}
	if req.MaxTotal < 0 {
		return NewValidationError("max total must be >= 0")
	}
	if req.OutputFormat != "" && !req.OutputFormat.IsValid() {
		return NewUnsupportedFormatError(string(req.OutputFormat))
	}
	return nil
}

// DefaultDuplicationRequest returns a request with the default settings
func DefaultDuplicationRequest() *DuplicationRequest {
	return &DuplicationRequest{
		Paths:        []string{"."},
		Recursive:    true,
		Mass:         DefaultMass,
		Timeout:      DefaultParseTimeout,
		OutputFormat: OutputFormatText,
		Number:       true,
		ShowProgress: true,
	}
}

// DuplicationResponse represents the result of duplication analysis
type DuplicationResponse struct {
	Total       int                   `json:"total" yaml:"total"`
	Items       []DuplicateItem       `json:"items" yaml:"items"`
	Summary     []FileScore           `json:"summary" yaml:"summary"`
	Statistics  DuplicationStatistics `json:"statistics" yaml:"statistics"`
	Options     DuplicationOptions    `json:"options" yaml:"options"`
	Diagnostics []Diagnostic          `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	// Errors and Warnings carry the diagnostics as "[file] reason" lines
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Duration    int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
}

// SkippedFiles returns the diagnostics of files that contributed no nodes
func (r *DuplicationResponse) SkippedFiles() []Diagnostic {
	var skipped []Diagnostic
	for _, d := range r.Diagnostics {
		if d.IsSkip() {
			skipped = append(skipped, d)
		}
	}
	return skipped
}

// ExceedsMaxTotal reports whether the total is above a positive limit
func (r *DuplicationResponse) ExceedsMaxTotal(max int) bool {
	return max > 0 && r.Total > max
}

// DuplicationService defines the interface for duplication analysis
type DuplicationService interface {
	// Analyze parses the request's files and returns the ranked duplicates
	Analyze(ctx context.Context, req DuplicationRequest) (*DuplicationResponse, error)
}

// DuplicationOutputFormatter defines the interface for formatting duplication results
type DuplicationOutputFormatter interface {
	// Format formats the response according to the specified format
	Format(response *DuplicationResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *DuplicationResponse, format OutputFormat, writer io.Writer) error
}

// DuplicationConfigurationLoader defines the interface for loading configuration
type DuplicationConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*DuplicationRequest, error)

	// LoadDefaultConfig discovers and loads the configuration for a target path
	LoadDefaultConfig(targetPath string) *DuplicationRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *DuplicationRequest, override *DuplicationRequest) *DuplicationRequest
}
