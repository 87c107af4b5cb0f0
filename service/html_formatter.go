package service

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ludo-technologies/shapedup/domain"
)

// HTMLFormatterImpl renders duplication responses as a standalone HTML page
type HTMLFormatterImpl struct {
	tmpl *template.Template
}

// DuplicationHTMLData is the template input
type DuplicationHTMLData struct {
	Title    string
	Grade    string
	Response *domain.DuplicationResponse
}

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter() *HTMLFormatterImpl {
	funcs := template.FuncMap{
		"inc":     func(i int) int { return i + 1 },
		"percent": func(r float64) string { return fmt.Sprintf("%.0f%%", r*100) },
	}
	return &HTMLFormatterImpl{
		tmpl: template.Must(template.New("duplication").Funcs(funcs).Parse(duplicationHTMLTemplate)),
	}
}

// Write renders the response to w
func (f *HTMLFormatterImpl) Write(response *domain.DuplicationResponse, w io.Writer) error {
	data := DuplicationHTMLData{
		Title:    "Duplication Report",
		Grade:    Grade(response),
		Response: response,
	}
	if err := f.tmpl.Execute(w, data); err != nil {
		return domain.NewOutputError("failed to render HTML report", err)
	}
	return nil
}

// Grade maps the average score per analyzed file onto a letter a..f
func Grade(response *domain.DuplicationResponse) string {
	files := response.Statistics.FilesAnalyzed
	if files == 0 || response.Total == 0 {
		return "a"
	}
	perFile := float64(response.Total) / float64(files)
	switch {
	case perFile < 10:
		return "a"
	case perFile < 25:
		return "b"
	case perFile < 50:
		return "c"
	case perFile < 100:
		return "d"
	default:
		return "f"
	}
}
