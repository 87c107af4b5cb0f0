package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/domain"
)

func writeHello(w io.Writer) error {
	_, err := io.WriteString(w, "hello")
	return err
}

func TestFileOutputWriter_WritesToWriter(t *testing.T) {
	var status, out bytes.Buffer
	w := NewFileOutputWriter(&status)

	require.NoError(t, w.Write(&out, "", domain.OutputFormatText, true, writeHello))
	assert.Equal(t, "hello", out.String())
	assert.Empty(t, status.String())
}

func TestFileOutputWriter_WritesFile(t *testing.T) {
	var status bytes.Buffer
	w := NewFileOutputWriter(&status)

	path := filepath.Join(t.TempDir(), "nested", "dir", "report.json")
	require.NoError(t, w.Write(nil, path, domain.OutputFormatJSON, true, writeHello))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.Contains(t, status.String(), "JSON report generated: "+path)
}

func TestFileOutputWriter_HTML(t *testing.T) {
	dir := t.TempDir()

	t.Run("no open", func(t *testing.T) {
		var status bytes.Buffer
		w := NewFileOutputWriter(&status)
		w.opener = func(string) error {
			t.Fatal("browser must not be opened")
			return nil
		}
		require.NoError(t, w.Write(nil, filepath.Join(dir, "a.html"), domain.OutputFormatHTML, true, writeHello))
		assert.Contains(t, status.String(), "HTML report generated: ")
	})

	t.Run("opens browser", func(t *testing.T) {
		var status bytes.Buffer
		var opened string
		w := NewFileOutputWriter(&status)
		w.opener = func(url string) error {
			opened = url
			return nil
		}
		path := filepath.Join(dir, "b.html")
		require.NoError(t, w.Write(nil, path, domain.OutputFormatHTML, false, writeHello))
		assert.Equal(t, "file://"+path, opened)
		assert.Contains(t, status.String(), "HTML report generated and opened: ")
	})

	t.Run("opener failure is a warning", func(t *testing.T) {
		var status bytes.Buffer
		w := NewFileOutputWriter(&status)
		w.opener = func(string) error { return errors.New("no display") }
		require.NoError(t, w.Write(nil, filepath.Join(dir, "c.html"), domain.OutputFormatHTML, false, writeHello))
		assert.Contains(t, status.String(), "Warning: Could not open browser: no display")
	})
}

func TestFileOutputWriter_WriteFuncError(t *testing.T) {
	w := NewFileOutputWriter(io.Discard)
	err := w.Write(io.Discard, "", domain.OutputFormatText, true, func(io.Writer) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
}

func TestReportPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, filepath.Join(DefaultReportDir, "duplication_20240305_140709.html"),
		ReportPath("", domain.OutputFormatHTML, now))
	assert.Equal(t, filepath.Join("out", "duplication_20240305_140709.json"),
		ReportPath("out", domain.OutputFormatJSON, now))
}
