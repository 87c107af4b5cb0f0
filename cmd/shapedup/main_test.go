package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/version"
)

const callForm = "(root (call (lvar x) foo (lit 1) (lit 2)))\n"

func init() {
	color.NoColor = true
}

// run executes the root command with args and returns stdout, stderr and the error
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func duplicateTree(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, dir, "a.sexp", callForm)
	writeFile(t, dir, "b.sexp", callForm)
	return dir
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)

	out, _, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shapedup "+version.Short())
}

func TestScan_ReportsIdenticalCode(t *testing.T) {
	dir := duplicateTree(t)

	out, _, err := run(t, "scan", "--mass", "8", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total score (lower is better) = 32")
	assert.Contains(t, out, "1) IDENTICAL code found in :call (mass*2 = 32)")
	assert.Contains(t, out, filepath.Join(dir, "a.sexp")+":1")
	assert.Contains(t, out, filepath.Join(dir, "b.sexp")+":1")
}

func TestScan_DefaultMassHidesSmallTrees(t *testing.T) {
	dir := duplicateTree(t)

	out, _, err := run(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total score (lower is better) = 0")
	assert.NotContains(t, out, "IDENTICAL")
}

func TestScan_Summary(t *testing.T) {
	dir := duplicateTree(t)

	out, _, err := run(t, "scan", "-m", "8", "--summary", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "   16.00: "+filepath.Join(dir, "a.sexp"))
	assert.Contains(t, out, "   16.00: "+filepath.Join(dir, "b.sexp"))
}

func TestScan_MaxTotal(t *testing.T) {
	dir := duplicateTree(t)

	out, _, err := run(t, "scan", "-m", "8", "--max-total", "10", dir)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeCheckFailed, domain.ErrorCode(err))
	assert.Contains(t, out, "Total score (lower is better) = 32", "report is written before the check fails")

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Equal(t, "Total score too high! 32 > 10\n", buf.String())

	_, _, err = run(t, "scan", "-m", "8", "--max-total", "32", dir)
	assert.NoError(t, err)
}

func TestScan_InvalidFilter(t *testing.T) {
	dir := duplicateTree(t)

	_, _, err := run(t, "scan", "--filter", "call puts", dir)
	require.Error(t, err)

	var buf bytes.Buffer
	printError(&buf, err)
	assert.True(t, strings.HasPrefix(buf.String(), "Error ("))
	assert.Contains(t, buf.String(), "Suggestions:")
}

func TestScan_ConflictingFormats(t *testing.T) {
	_, _, err := run(t, "scan", "--json", "--yaml", t.TempDir())
	assert.Error(t, err)
}

func TestScan_ExplicitFlags(t *testing.T) {
	cmd := NewScanCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--mass", "20", "--json", "--fuzzy"}))

	flags := explicitFlags(cmd)
	assert.True(t, flags[domain.FlagMass])
	assert.True(t, flags[domain.FlagFuzzy])
	assert.True(t, flags[domain.FlagFormat])
	assert.False(t, flags[domain.FlagLiberal])

	fuzzy, err := cmd.Flags().GetInt(domain.FlagFuzzy)
	require.NoError(t, err)
	assert.Equal(t, 1, fuzzy)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ".shapedup.toml")

	out, _, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mass = 16")

	_, _, err = run(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestLanguages(t *testing.T) {
	out, _, err := run(t, "languages")
	require.NoError(t, err)

	lower := strings.ToLower(out)
	for _, want := range []string{"ruby", ".rb", "python", ".py", "sexp", "yes"} {
		assert.Contains(t, lower, want)
	}
}

func TestDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.sexp", callForm)

	out, _, err := run(t, "dump", "--sexp", path)
	require.NoError(t, err)
	assert.Equal(t, "(root (call (lvar x) foo (lit 1) (lit 2)))\n", out)

	out, _, err = run(t, "dump", path)
	require.NoError(t, err)
	assert.Equal(t, "root [1]\n  call [1] foo\n    lvar [1] x\n    lit [1] 1\n    lit [1] 2\n", out)
}

func TestDump_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "dump", filepath.Join(dir, "missing.sexp"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeParseFailure, domain.ErrorCode(err))

	bad := writeFile(t, dir, "bad.sexp", "(root (call")
	_, _, err = run(t, "dump", bad)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeParseFailure, domain.ErrorCode(err))
}
