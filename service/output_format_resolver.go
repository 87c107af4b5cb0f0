package service

import (
	"github.com/ludo-technologies/shapedup/domain"
)

// OutputFormatResolver resolves the output format from the format flags
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// FormatFlags are the mutually exclusive format switches of the CLI
type FormatFlags struct {
	HTML  bool
	JSON  bool
	CSV   bool
	YAML  bool
	Table bool
}

// Determine evaluates format flags and returns the selected format and file
// extension. At most one flag may be set; none selects text with no extension.
// Table output is a terminal format and has no extension either.
func (r *OutputFormatResolver) Determine(flags FormatFlags) (domain.OutputFormat, string, error) {
	candidates := []struct {
		set    bool
		format domain.OutputFormat
		ext    string
	}{
		{flags.HTML, domain.OutputFormatHTML, "html"},
		{flags.JSON, domain.OutputFormatJSON, "json"},
		{flags.CSV, domain.OutputFormatCSV, "csv"},
		{flags.YAML, domain.OutputFormatYAML, "yaml"},
		{flags.Table, domain.OutputFormatTable, ""},
	}

	count := 0
	format := domain.OutputFormatText
	ext := ""
	for _, c := range candidates {
		if c.set {
			count++
			format, ext = c.format, c.ext
		}
	}

	if count > 1 {
		return "", "", domain.NewInvalidInputError("only one output format flag can be specified", nil)
	}
	return format, ext, nil
}

// IsFileFormat reports whether a format is written to a report file rather than stdout
func IsFileFormat(format domain.OutputFormat) bool {
	switch format {
	case domain.OutputFormatHTML, domain.OutputFormatJSON, domain.OutputFormatCSV, domain.OutputFormatYAML:
		return true
	}
	return false
}
