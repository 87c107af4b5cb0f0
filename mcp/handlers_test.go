package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/mcp"
	"github.com/ludo-technologies/shapedup/service"
)

const callForm = "(root (call (lvar x) foo (lit 1) (lit 2)))\n"

type args struct {
	arguments interface{}
	setupFS   func(t *testing.T) string
}

// setupDuplicates writes two files holding the same mass-8 call
func setupDuplicates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"a.sexp", "b.sexp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(callForm), 0o644))
	}
	return dir
}

func setupSingleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.sexp")
	require.NoError(t, os.WriteFile(path, []byte(callForm), 0o644))
	return path
}

func runToolTest(
	t *testing.T,
	setupFS func(t *testing.T) string,
	arguments interface{},
	handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error),
) *mcplib.CallToolResult {
	t.Helper()
	deps := mcp.NewTestDependencies(service.NewFileReader(nil), nil, "")
	h := mcp.NewHandlerSet(deps)

	if setupFS != nil {
		if m, ok := arguments.(map[string]interface{}); ok {
			m["path"] = setupFS(t)
		}
	}

	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}

	res, err := handlerFunc(h, context.Background(), req)
	require.NoError(t, err)

	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	content, ok := mcplib.AsTextContent(res.Content[0])
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return content.Text
}

func decode(t *testing.T, res *mcplib.CallToolResult) map[string]interface{} {
	t.Helper()
	text := resultText(t, res)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	return result
}

func TestHandleDetectDuplicates(t *testing.T) {
	type want struct {
		isError      bool
		expectPrefix string
		check        func(t *testing.T, res *mcplib.CallToolResult)
	}
	tests := map[string]struct {
		args args
		want want
	}{
		"invalid_arguments_format": {
			args: args{arguments: "not-a-map"},
			want: want{isError: true, expectPrefix: "invalid arguments format"},
		},
		"path_missing": {
			args: args{arguments: map[string]interface{}{}},
			want: want{isError: true, expectPrefix: "path parameter is required"},
		},
		"path_not_exist": {
			args: args{arguments: map[string]interface{}{"path": "/non/existing/path"}},
			want: want{isError: true, expectPrefix: "path does not exist"},
		},
		"invalid_mass": {
			args: args{
				setupFS:   setupDuplicates,
				arguments: map[string]interface{}{"mass": float64(0)},
			},
			want: want{isError: true, expectPrefix: "analysis failed"},
		},
		"default_mass_finds_nothing": {
			args: args{
				setupFS:   setupDuplicates,
				arguments: map[string]interface{}{},
			},
			want: want{check: func(t *testing.T, res *mcplib.CallToolResult) {
				result := decode(t, res)
				assert.Equal(t, float64(0), result["total"])
				assert.Empty(t, result["items"])
			}},
		},
		"summary": {
			args: args{
				setupFS:   setupDuplicates,
				arguments: map[string]interface{}{"mass": float64(8)},
			},
			want: want{check: func(t *testing.T, res *mcplib.CallToolResult) {
				result := decode(t, res)
				assert.Equal(t, float64(32), result["total"])
				items := result["items"].([]interface{})
				require.Len(t, items, 1)
				item := items[0].(map[string]interface{})
				assert.Equal(t, "IDENTICAL", item["kind"])
				assert.Equal(t, "call", item["type"])
				assert.Len(t, item["locations"], 2)
				assert.Equal(t, false, result["truncated"])
			}},
		},
		"max_results_truncates": {
			args: args{
				setupFS:   setupDuplicates,
				arguments: map[string]interface{}{"mass": float64(1), "max_results": float64(1)},
			},
			want: want{check: func(t *testing.T, res *mcplib.CallToolResult) {
				result := decode(t, res)
				assert.Len(t, result["items"], 1)
			}},
		},
		"filter_drops_match": {
			args: args{
				setupFS: setupDuplicates,
				arguments: map[string]interface{}{
					"mass":    float64(8),
					"filters": []interface{}{"(call ___)"},
				},
			},
			want: want{check: func(t *testing.T, res *mcplib.CallToolResult) {
				result := decode(t, res)
				assert.Empty(t, result["items"])
			}},
		},
		"full_output": {
			args: args{
				setupFS:   setupDuplicates,
				arguments: map[string]interface{}{"mass": float64(8), "output_mode": "full"},
			},
			want: want{check: func(t *testing.T, res *mcplib.CallToolResult) {
				result := decode(t, res)
				assert.Contains(t, result, "statistics")
				assert.Contains(t, result, "options")
			}},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res := runToolTest(t, tc.args.setupFS, tc.args.arguments, (*mcp.HandlerSet).HandleDetectDuplicates)

			require.Equal(t, tc.want.isError, res.IsError)
			if tc.want.expectPrefix != "" {
				text := resultText(t, res)
				assert.True(t, strings.HasPrefix(text, tc.want.expectPrefix), "%q does not start with %q", text, tc.want.expectPrefix)
			}
			if tc.want.check != nil {
				tc.want.check(t, res)
			}
		})
	}
}

func TestHandleDuplicationScore(t *testing.T) {
	res := runToolTest(t, setupDuplicates, map[string]interface{}{"mass": float64(8)}, (*mcp.HandlerSet).HandleDuplicationScore)
	require.False(t, res.IsError)

	result := decode(t, res)
	assert.Equal(t, float64(32), result["total"])
	assert.Equal(t, float64(2), result["files_analyzed"])

	files := result["files"].([]interface{})
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, float64(16), f.(map[string]interface{})["score"])
	}

	res = runToolTest(t, nil, map[string]interface{}{}, (*mcp.HandlerSet).HandleDuplicationScore)
	assert.True(t, res.IsError)
}

func TestHandleDumpTree(t *testing.T) {
	res := runToolTest(t, setupSingleFile, map[string]interface{}{}, (*mcp.HandlerSet).HandleDumpTree)
	require.False(t, res.IsError)

	result := decode(t, res)
	assert.Equal(t, "sexp", result["language"])
	assert.Equal(t, false, result["fallback"])
	assert.Equal(t, "(root (call (lvar x) foo (lit 1) (lit 2)))", result["sexp"])

	res = runToolTest(t, setupDuplicates, map[string]interface{}{}, (*mcp.HandlerSet).HandleDumpTree)
	assert.True(t, res.IsError, "directories are rejected")
}
