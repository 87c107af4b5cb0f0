package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuplicationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*DuplicationRequest)
		wantErr string
	}{
		{"defaults are valid", func(r *DuplicationRequest) {}, ""},
		{"empty paths", func(r *DuplicationRequest) { r.Paths = nil }, "paths cannot be empty"},
		{"zero mass", func(r *DuplicationRequest) { r.Mass = 0 }, "mass must be >= 1"},
		{"negative fuzzy", func(r *DuplicationRequest) { r.Fuzzy = -1 }, "fuzzy must be >= 0"},
		{"zero timeout", func(r *DuplicationRequest) { r.Timeout = 0 }, "timeout must be positive"},
		{"negative goroutines", func(r *DuplicationRequest) { r.MaxGoroutines = -2 }, "max goroutines"},
		{"negative max total", func(r *DuplicationRequest) { r.MaxTotal = -1 }, "max total"},
		{"unknown format", func(r *DuplicationRequest) { r.OutputFormat = "xml" }, "unsupported format: xml"},
		{"fuzzy and liberal", func(r *DuplicationRequest) { r.Fuzzy = 2; r.Liberal = true; r.Timeout = time.Second }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultDuplicationRequest()
			tt.modify(req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultDuplicationRequest(t *testing.T) {
	req := DefaultDuplicationRequest()

	assert.Equal(t, 16, req.Mass)
	assert.Equal(t, 0, req.Fuzzy)
	assert.False(t, req.Liberal)
	assert.True(t, req.Number)
	assert.Equal(t, OutputFormatText, req.OutputFormat)
	assert.Equal(t, 10*time.Second, req.Timeout)
}

func TestDuplicationRequest_Options(t *testing.T) {
	req := DuplicationRequest{Mass: 20, Fuzzy: 1, Only: "defn", Filters: []string{"if"}, Diff: true}
	opts := req.Options()

	assert.Equal(t, DuplicationOptions{Mass: 20, Fuzzy: 1, Only: "defn", Filters: []string{"if"}, Diff: true}, opts)
}

func TestDuplicateItem_Kind(t *testing.T) {
	assert.Equal(t, "IDENTICAL", DuplicateItem{Identical: true}.Kind())
	assert.Equal(t, "Similar", DuplicateItem{}.Kind())
}

func TestDuplicateLocation_String(t *testing.T) {
	assert.Equal(t, "a.rb:3", DuplicateLocation{File: "a.rb", Line: 3}.String())
	assert.Equal(t, "a.rb:3 (FUZZY)", DuplicateLocation{File: "a.rb", Line: 3, Fuzzy: true}.String())
}

func TestNewDiagnostic(t *testing.T) {
	d := NewDiagnostic("b.txt", NewUnknownFileTypeError("ruby"))
	assert.Equal(t, Diagnostic{File: "b.txt", Code: ErrCodeUnknownFileType, Message: "unknown file type, parsed as ruby"}, d)
	assert.False(t, d.IsSkip())

	d = NewDiagnostic("a.rb", errors.New("syntax error at line 3"))
	assert.Equal(t, ErrCodeParseFailure, d.Code)
	assert.Equal(t, "[a.rb] syntax error at line 3", d.String())
	assert.True(t, d.IsSkip())
}

func TestDuplicationResponse_SkippedFiles(t *testing.T) {
	resp := &DuplicationResponse{Diagnostics: []Diagnostic{
		{File: "a.rb", Code: ErrCodeParseFailure, Message: "syntax error at line 3"},
		{File: "b.txt", Code: ErrCodeUnknownFileType, Message: "parsed as ruby"},
		{File: "c.rb", Code: ErrCodeParseTimeout, Message: "timed out"},
	}}

	skipped := resp.SkippedFiles()
	assert.Len(t, skipped, 2)
	assert.Equal(t, "[a.rb] syntax error at line 3", skipped[0].String())
	assert.Equal(t, "c.rb", skipped[1].File)
}

func TestDuplicationResponse_ExceedsMaxTotal(t *testing.T) {
	resp := &DuplicationResponse{Total: 100}

	assert.False(t, resp.ExceedsMaxTotal(0))
	assert.False(t, resp.ExceedsMaxTotal(100))
	assert.True(t, resp.ExceedsMaxTotal(99))
}

func TestOutputFormat_IsValid(t *testing.T) {
	for _, f := range SupportedOutputFormats() {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, OutputFormat("dot").IsValid())
}
