package analyzer

import (
	"fmt"
	"io"
	"strings"
)

// Location is one member of a reported match
type Location struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	EndLine int    `json:"end_line" yaml:"end_line"`
	Fuzzy   bool   `json:"fuzzy" yaml:"fuzzy"`
}

// Item is a surviving bucket prepared for reporting
type Item struct {
	ID         string     `json:"id" yaml:"id"`
	Hash       uint32     `json:"hash" yaml:"hash"`
	Type       string     `json:"type" yaml:"type"`
	Identical  bool       `json:"identical" yaml:"identical"`
	Bonus      string     `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	Mass       int        `json:"mass" yaml:"mass"`
	Similarity float64    `json:"similarity" yaml:"similarity"`
	Locations  []Location `json:"locations" yaml:"locations"`
	// Sources holds the reconstructed text of each location, in location
	// order, when diff rendering was requested.
	Sources       []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	CommentMarker string   `json:"-" yaml:"-"`
}

// Kind returns "IDENTICAL" or "Similar"
func (it Item) Kind() string {
	if it.Identical {
		return "IDENTICAL"
	}
	return "Similar"
}

// ReportOptions controls the text report
type ReportOptions struct {
	Diff    bool
	Summary bool
	Number  bool
}

// WriteReport writes the plain text report:
//
//	Total score (lower is better) = 32
//
//	1) IDENTICAL code found in :class (mass*2 = 32)
//	  a.rb:1
//	  b.rb:1
//
// Summary mode replaces the entries with one "%8.2f: file" line per file.
func WriteReport(w io.Writer, total int, items []Item, summary []FileScore, opts ReportOptions) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total score (lower is better) = %d\n", total)

	if opts.Summary {
		sb.WriteString("\n")
		for _, fs := range summary {
			fmt.Fprintf(&sb, "%8.2f: %s\n", fs.Score, fs.File)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}

	for i, item := range items {
		sb.WriteString("\n")
		writeItem(&sb, i, item, opts)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeItem(sb *strings.Builder, index int, item Item, opts ReportOptions) {
	prefix := ""
	if opts.Number {
		prefix = fmt.Sprintf("%d) ", index+1)
	}
	fmt.Fprintf(sb, "%s%s code found in :%s (mass%s = %d)\n", prefix, item.Kind(), item.Type, item.Bonus, item.Mass)

	for j, loc := range item.Locations {
		letter := ""
		if opts.Diff {
			letter = groupLetter(j) + ": "
		}
		extra := ""
		if loc.Fuzzy {
			extra = " (FUZZY)"
		}
		fmt.Fprintf(sb, "  %s%s:%d%s\n", letter, loc.File, loc.Line, extra)
	}

	if opts.Diff && len(item.Sources) > 0 {
		sb.WriteString("\n")
		sb.WriteString(NWayDiff(item.CommentMarker, item.Sources...))
		sb.WriteString("\n")
	}
}
