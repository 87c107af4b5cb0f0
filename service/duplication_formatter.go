package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/analyzer"
)

// DuplicationFormatterImpl implements domain.DuplicationOutputFormatter
type DuplicationFormatterImpl struct {
	colored bool
}

// NewDuplicationFormatter creates a formatter. Color applies to the table
// format and the diagnostics section only; the report lines stay plain.
func NewDuplicationFormatter() *DuplicationFormatterImpl {
	return &DuplicationFormatterImpl{colored: !color.NoColor}
}

// WithColor overrides color detection
func (f *DuplicationFormatterImpl) WithColor(colored bool) *DuplicationFormatterImpl {
	f.colored = colored
	return f
}

// Format formats the response according to the specified format
func (f *DuplicationFormatterImpl) Format(response *domain.DuplicationResponse, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the formatted output to the writer
func (f *DuplicationFormatterImpl) Write(response *domain.DuplicationResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("no response to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		return f.writeText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatHTML:
		return NewHTMLFormatter().Write(response, writer)
	case domain.OutputFormatTable:
		return f.writeTable(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeText renders the classic report followed by the skipped-file section
func (f *DuplicationFormatterImpl) writeText(response *domain.DuplicationResponse, w io.Writer) error {
	items := make([]analyzer.Item, len(response.Items))
	for i, it := range response.Items {
		items[i] = toAnalyzerItem(it)
	}
	summary := make([]analyzer.FileScore, len(response.Summary))
	for i, fs := range response.Summary {
		summary[i] = analyzer.FileScore{File: fs.File, Score: fs.Score}
	}

	opts := analyzer.ReportOptions{
		Diff:    response.Options.Diff,
		Summary: response.Options.Summary,
		Number:  response.Options.Number,
	}
	if err := analyzer.WriteReport(w, response.Total, items, summary, opts); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}

	if section := NewFormatUtils(f.colored).FormatDiagnostics(response.SkippedFiles()); section != "" {
		if _, err := io.WriteString(w, section); err != nil {
			return domain.NewOutputError("failed to write report", err)
		}
	}
	return nil
}

// writeCSV writes one row per location; summary mode writes one row per file
func (f *DuplicationFormatterImpl) writeCSV(response *domain.DuplicationResponse, w io.Writer) error {
	cw := csv.NewWriter(w)

	var records [][]string
	if response.Options.Summary {
		records = append(records, []string{"file", "score"})
		for _, fs := range response.Summary {
			records = append(records, []string{fs.File, strconv.FormatFloat(fs.Score, 'f', 2, 64)})
		}
	} else {
		records = append(records, []string{"rank", "id", "kind", "type", "mass", "similarity", "file", "line", "end_line", "fuzzy"})
		for i, it := range response.Items {
			for _, loc := range it.Locations {
				records = append(records, []string{
					strconv.Itoa(i + 1),
					it.ID,
					it.Kind(),
					it.Type,
					strconv.Itoa(it.Mass),
					strconv.FormatFloat(it.Similarity, 'f', 3, 64),
					loc.File,
					strconv.Itoa(loc.Line),
					strconv.Itoa(loc.EndLine),
					strconv.FormatBool(loc.Fuzzy),
				})
			}
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	return nil
}

// writeTable renders the items, or the per-file summary, as a terminal table
func (f *DuplicationFormatterImpl) writeTable(response *domain.DuplicationResponse, w io.Writer) error {
	utils := NewFormatUtils(f.colored)
	fmt.Fprint(w, utils.FormatMainHeader(fmt.Sprintf("Total score (lower is better) = %d", response.Total)))

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	if response.Options.Summary {
		table.Header([]string{"Score", "File"})
		for _, fs := range response.Summary {
			_ = table.Append([]string{fmt.Sprintf("%.2f", fs.Score), fs.File})
		}
	} else {
		table.Header([]string{"#", "Kind", "Type", "Mass", "Similarity", "Locations"})
		for i, it := range response.Items {
			locs := make([]string, len(it.Locations))
			for j, loc := range it.Locations {
				locs[j] = loc.String()
			}
			_ = table.Append([]string{
				strconv.Itoa(i + 1),
				utils.FormatKind(it.Identical),
				it.Type,
				strconv.Itoa(it.Mass),
				utils.FormatPercentage(it.Similarity),
				strings.Join(locs, "\n"),
			})
		}
	}

	if err := table.Render(); err != nil {
		return domain.NewOutputError("failed to render table", err)
	}

	fmt.Fprint(w, utils.FormatDiagnostics(response.SkippedFiles()))
	return nil
}
