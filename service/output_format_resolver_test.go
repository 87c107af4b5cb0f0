package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/domain"
)

func TestOutputFormatResolver_Determine(t *testing.T) {
	r := NewOutputFormatResolver()

	tests := []struct {
		name   string
		flags  FormatFlags
		format domain.OutputFormat
		ext    string
	}{
		{"none", FormatFlags{}, domain.OutputFormatText, ""},
		{"html", FormatFlags{HTML: true}, domain.OutputFormatHTML, "html"},
		{"json", FormatFlags{JSON: true}, domain.OutputFormatJSON, "json"},
		{"csv", FormatFlags{CSV: true}, domain.OutputFormatCSV, "csv"},
		{"yaml", FormatFlags{YAML: true}, domain.OutputFormatYAML, "yaml"},
		{"table", FormatFlags{Table: true}, domain.OutputFormatTable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ext, err := r.Determine(tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.ext, ext)
		})
	}

	_, _, err := r.Determine(FormatFlags{JSON: true, YAML: true})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestIsFileFormat(t *testing.T) {
	assert.True(t, IsFileFormat(domain.OutputFormatHTML))
	assert.True(t, IsFileFormat(domain.OutputFormatJSON))
	assert.True(t, IsFileFormat(domain.OutputFormatCSV))
	assert.True(t, IsFileFormat(domain.OutputFormatYAML))
	assert.False(t, IsFileFormat(domain.OutputFormatText))
	assert.False(t, IsFileFormat(domain.OutputFormatTable))
}
