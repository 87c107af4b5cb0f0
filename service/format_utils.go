package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/shapedup/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data) + "\n", nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth    = 40
	SectionPadding = 2
)

// FormatUtils provides shared formatting utilities
type FormatUtils struct {
	colored bool
}

// NewFormatUtils creates a new format utilities instance. Color is only used
// when colored is true and the terminal supports it.
func NewFormatUtils(colored bool) *FormatUtils {
	return &FormatUtils{colored: colored && !color.NoColor}
}

// FormatMainHeader creates an underlined title
func (f *FormatUtils) FormatMainHeader(title string) string {
	return f.bold(title) + "\n" + strings.Repeat("=", HeaderWidth) + "\n\n"
}

// FormatSectionHeader creates an upper-case, underlined section title
func (f *FormatUtils) FormatSectionHeader(title string) string {
	return f.bold(strings.ToUpper(title)) + "\n" + strings.Repeat("-", len(title)) + "\n"
}

// FormatLabelWithIndent creates a formatted label with specific indentation
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatKind renders IDENTICAL in red and Similar in yellow
func (f *FormatUtils) FormatKind(identical bool) string {
	if !f.colored {
		if identical {
			return "IDENTICAL"
		}
		return "Similar"
	}
	if identical {
		return color.New(color.FgRed, color.Bold).Sprint("IDENTICAL")
	}
	return color.New(color.FgYellow).Sprint("Similar")
}

// FormatPercentage formats a 0..1 ratio as a percentage
func (f *FormatUtils) FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatDiagnostics lists skipped files. Empty when nothing was skipped.
func (f *FormatUtils) FormatDiagnostics(skipped []domain.Diagnostic) string {
	if len(skipped) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(f.warn(fmt.Sprintf("Skipped %d file(s); the score covers the processed files only:", len(skipped))))
	sb.WriteString("\n")
	for _, d := range skipped {
		sb.WriteString(strings.Repeat(" ", SectionPadding))
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *FormatUtils) bold(s string) string {
	if !f.colored {
		return s
	}
	return color.New(color.Bold).Sprint(s)
}

func (f *FormatUtils) warn(s string) string {
	if !f.colored {
		return s
	}
	return color.New(color.FgYellow).Sprint(s)
}
