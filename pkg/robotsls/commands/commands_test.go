package commands_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kralicky/robotsls/pkg/robotsls/commands"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.txt", "User-agent: *\nDisallow: /private\n")
	bad := writeFile(t, dir, "bad.txt", "Disallow: /x\n\nUser-agent: a\nCrawl-delay: soon\nAllow: x\n")

	out, err := run(t, commands.BuildCheckCmd(), clean)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, commands.BuildCheckCmd(), clean, bad)
	require.ErrorIs(t, err, commands.ErrProblemsFound)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		bad + `:1:1: error: Disallow must follow a User-agent line [record-start]`,
		bad + `:4:14: error: crawl delay "soon" must be a non-negative number of seconds [crawl-delay]`,
		bad + `:5:8: warning: path "x" should start with '/' or '*' [rule-path]`,
	}, lines)
}

func TestCheckWarningsOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robots.txt", "User-agent: a\nAllow: x\n")
	out, err := run(t, commands.BuildCheckCmd(), path)
	require.NoError(t, err)
	assert.Equal(t, path+`:2:8: warning: path "x" should start with '/' or '*' [rule-path]`+"\n", out)
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robots.txt", "User-agent: a\nAllow: x\n")
	config := writeFile(t, dir, "config.yaml", "analyzers:\n  rule-path:\n    severity: error\n")

	out, err := run(t, commands.BuildCheckCmd(), "--config", config, path)
	require.ErrorIs(t, err, commands.ErrProblemsFound)
	assert.Contains(t, out, ":2:8: error: ")

	disabled := writeFile(t, dir, "disabled.yaml", "analyzers:\n  rule-path:\n    enabled: false\n")
	out, err = run(t, commands.BuildCheckCmd(), "--config", disabled, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	invalid := writeFile(t, dir, "invalid.yaml", "analyzers:\n  no-such-analyzer: {}\n")
	_, err = run(t, commands.BuildCheckCmd(), "--config", invalid, path)
	assert.ErrorContains(t, err, "no-such-analyzer")
}

func TestCheckMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robots.txt", "User-agent: a\n")
	_, err := run(t, commands.BuildCheckCmd(), path, filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, commands.ErrProblemsFound)
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	const input = "user-agent:a\n\n\ndisallow:/x   \n"
	const want = "User-agent: a\n\nDisallow: /x\n"
	path := writeFile(t, dir, "robots.txt", input)
	formatted := writeFile(t, dir, "formatted.txt", want)

	out, err := run(t, commands.BuildFmtCmd(), path)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	out, err = run(t, commands.BuildFmtCmd(), "-l", path, formatted)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, err = run(t, commands.BuildFmtCmd(), "-w", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(contents))

	_, err = run(t, commands.BuildFmtCmd(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
