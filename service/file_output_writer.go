package service

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ludo-technologies/shapedup/domain"
)

// DefaultReportDir is where file-based reports go when no directory is configured
const DefaultReportDir = ".shapedup/reports"

// FileOutputWriter writes reports to files or provided writers and optionally
// opens HTML in a browser.
type FileOutputWriter struct {
	status io.Writer
	opener func(url string) error
}

// NewFileOutputWriter creates a new FileOutputWriter. Status lines go to
// status, or stderr when nil.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status, opener: OpenBrowser}
}

// Write implements domain.ReportWriter
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error {
	out := writer
	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return domain.NewOutputError(fmt.Sprintf("failed to create output directory: %s", dir), err)
			}
		}
		file, err := os.Create(outputPath)
		if err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
		}
		defer file.Close()
		out = file
	}

	if err := writeFunc(out); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}

	if outputPath == "" {
		return nil
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}

	if format != domain.OutputFormatHTML {
		fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), absPath)
		return nil
	}

	if noOpen {
		fmt.Fprintf(w.status, "HTML report generated: %s\n", absPath)
		return nil
	}
	if err := w.opener("file://" + absPath); err != nil {
		fmt.Fprintf(w.status, "Warning: Could not open browser: %v\n", err)
		fmt.Fprintf(w.status, "HTML report generated: %s\n", absPath)
		return nil
	}
	fmt.Fprintf(w.status, "HTML report generated and opened: %s\n", absPath)
	return nil
}

// ReportPath returns a timestamped report path for format inside dir, or
// DefaultReportDir when dir is empty.
func ReportPath(dir string, format domain.OutputFormat, now time.Time) string {
	if dir == "" {
		dir = DefaultReportDir
	}
	name := fmt.Sprintf("duplication_%s.%s", now.Format("20060102_150405"), format)
	return filepath.Join(dir, name)
}

// OpenBrowser opens url in the default browser
func OpenBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		for _, openCmd := range []string{"xdg-open", "gnome-open", "kde-open"} {
			if _, err := exec.LookPath(openCmd); err == nil {
				cmd = openCmd
				args = []string{url}
				break
			}
		}
		if cmd == "" {
			return fmt.Errorf("no suitable browser opener found for Linux")
		}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	// Start, not Run: the browser outlives the command
	if err := exec.Command(cmd, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
