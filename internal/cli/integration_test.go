package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/internal/cli"
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/reporter"
)

const (
	cleanMarkdown   = "Sum $x$.\n\n$$\ny\n$$\n"
	cleanHTML       = "<p>Sum <span class=\"math inline\">\\(x\\)</span>.</p>\n<span class=\"math display\">\\[y\\]</span>\n"
	dollarMarkdown  = "# Title\n\nCosts $5 today.\n"
	percentMarkdown = "Costs $5 and %x^2%.\n"
)

type execResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with an isolated, empty config file and
// the plain engine so no external typesetter is needed.
func execute(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), ".gomdmath.yml")
	writeFile(t, cfgFile, "")

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	full := append([]string{}, args[0])
	if args[0] == "render" || args[0] == "check" {
		full = append(full, "--engine", "plain")
	}
	full = append(full, "--config", cfgFile, "--color", "never")
	full = append(full, args[1:]...)
	cmd.SetArgs(full)

	err := cmd.Execute()
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func exitCode(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestIntegration_RenderWritesNextToInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	writeFile(t, input, cleanMarkdown)

	res := execute(t, "", "render", input)
	require.NoError(t, res.err)

	assert.Equal(t, cleanHTML, readFile(t, filepath.Join(dir, "doc.html")))
	assert.Contains(t, res.stderr, "Rendered 1 file")
	assert.Contains(t, res.stderr, "1 written")

	// A second run finds the output up to date.
	res = execute(t, "", "render", input)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "1 unchanged")
}

func TestIntegration_RenderOutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "site")
	writeFile(t, filepath.Join(dir, "a.md"), cleanMarkdown)
	writeFile(t, filepath.Join(dir, "b.markdown"), "no math\n")

	res := execute(t, "", "render", "--out-dir", outDir, "--out-ext", ".htm", dir)
	require.NoError(t, res.err)

	assert.Equal(t, cleanHTML, readFile(t, filepath.Join(outDir, "a.htm")))
	assert.Equal(t, "<p>no math</p>\n", readFile(t, filepath.Join(outDir, "b.htm")))
	assert.NoFileExists(t, filepath.Join(dir, "a.html"))
}

func TestIntegration_RenderStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	writeFile(t, input, cleanMarkdown)

	res := execute(t, "", "render", "--stdout", input)
	require.NoError(t, res.err)

	assert.Equal(t, cleanHTML, res.stdout)
	assert.NoFileExists(t, filepath.Join(dir, "doc.html"))
}

func TestIntegration_RenderDryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	writeFile(t, input, cleanMarkdown)

	res := execute(t, "", "render", "--dry-run", input)
	require.NoError(t, res.err)

	assert.NoFileExists(t, filepath.Join(dir, "doc.html"))
	assert.Contains(t, res.stderr, "Rendered (dry run) 1 file")
	assert.Contains(t, res.stderr, "1 inline, 1 block spans")
}

func TestIntegration_RenderDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	output := filepath.Join(dir, "doc.html")
	writeFile(t, input, cleanMarkdown)
	writeFile(t, output, "<p>Sum old.</p>\n<span class=\"math display\">\\[y\\]</span>\n")

	res := execute(t, "", "render", "--diff", input)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "doc.html\n")
	assert.Contains(t, res.stdout, "-<p>Sum old.</p>\n")
	assert.Contains(t, res.stdout, "+<p>Sum <span class=\"math inline\">")
	assert.Contains(t, res.stdout, " <span class=\"math display\">")
	assert.Contains(t, res.stderr, "dry run")

	// Nothing was written.
	assert.Contains(t, readFile(t, output), "Sum old.")

	res = execute(t, "", "render", "--diff", "--stdout", input)
	require.Error(t, res.err)
}

func TestIntegration_RenderStdin(t *testing.T) {
	t.Parallel()

	res := execute(t, cleanMarkdown, "render", "-")
	require.NoError(t, res.err)
	assert.Equal(t, cleanHTML, res.stdout)
}

func TestIntegration_RenderDelimiter(t *testing.T) {
	t.Parallel()

	res := execute(t, percentMarkdown, "render", "--delimiter", "%", "-")
	require.NoError(t, res.err)
	assert.Equal(t, "<p>Costs $5 and <span class=\"math inline\">\\(x^2\\)</span>.</p>\n", res.stdout)
}

func TestIntegration_RenderDelimiterFromConfig(t *testing.T) {
	t.Parallel()

	cfgFile := filepath.Join(t.TempDir(), "math.yml")
	writeFile(t, cfgFile, "delimiter: \"%\"\n")

	// --config given later on the command line wins over the empty one.
	res := execute(t, percentMarkdown, "render", "--config", cfgFile, "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `\(x^2\)`)
	assert.Contains(t, res.stdout, "$5")
}

func TestIntegration_RenderInvalidDelimiter(t *testing.T) {
	t.Parallel()

	res := execute(t, cleanMarkdown, "render", "--delimiter", "$$", "-")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "delimiter")
}

func TestIntegration_RenderInvalidPolicy(t *testing.T) {
	t.Parallel()

	res := execute(t, cleanMarkdown, "render", "--policy", "remove", "-")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "policy")
}

func TestIntegration_RenderMissingFile(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "render", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, res.err)
}

func TestIntegration_CheckReportsUnmatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "test.md")
	writeFile(t, input, dollarMarkdown)

	res := execute(t, "", "check", input)
	require.Error(t, res.err)
	require.ErrorIs(t, res.err, cli.ErrIssuesFound)
	assert.Equal(t, cli.ExitWarnings, exitCode(res.err))

	assert.Contains(t, res.stdout, "3:7")
	assert.Contains(t, res.stdout, document.RuleUnmatchedDelimiter)
	assert.Contains(t, res.stdout, "Costs $5 today.")

	assert.NoFileExists(t, filepath.Join(dir, "test.html"))
}

func TestIntegration_CheckNoContext(t *testing.T) {
	t.Parallel()

	input := filepath.Join(t.TempDir(), "test.md")
	writeFile(t, input, dollarMarkdown)

	res := execute(t, "", "check", "--no-context", input)
	require.ErrorIs(t, res.err, cli.ErrIssuesFound)
	assert.Contains(t, res.stdout, document.RuleUnmatchedDelimiter)
	assert.NotContains(t, res.stdout, "Costs $5 today.")
}

func TestIntegration_CheckClean(t *testing.T) {
	t.Parallel()

	input := filepath.Join(t.TempDir(), "clean.md")
	writeFile(t, input, cleanMarkdown)

	res := execute(t, "", "check", "--show-spans", input)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "inline")
	assert.Contains(t, res.stdout, "block")
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clean.md"), cleanMarkdown)
	writeFile(t, filepath.Join(dir, "test.md"), dollarMarkdown)

	res := execute(t, "", "check", "--format", "json", dir)
	require.ErrorIs(t, res.err, cli.ErrIssuesFound)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))

	assert.Equal(t, reporter.JSONVersion, out.Version)
	require.Len(t, out.Files, 2)
	assert.Equal(t, 2, out.Summary.FilesChecked)
	assert.Equal(t, 1, out.Summary.TotalIssues)
	assert.Equal(t, 1, out.Summary.InlineSpans)
	assert.Equal(t, 1, out.Summary.BlockSpans)

	for _, file := range out.Files {
		if strings.HasSuffix(file.Path, "test.md") {
			require.Len(t, file.Diagnostics, 1)
			assert.Equal(t, document.RuleUnmatchedDelimiter, file.Diagnostics[0].Rule)
			assert.Equal(t, 3, file.Diagnostics[0].Line)
			assert.Equal(t, 7, file.Diagnostics[0].Column)
		}
	}
}

func TestIntegration_CheckSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clean.md"), cleanMarkdown)
	writeFile(t, filepath.Join(dir, "test.md"), dollarMarkdown)

	res := execute(t, "", "check", "--format", "summary", "--sort", "alpha", dir)
	require.ErrorIs(t, res.err, cli.ErrIssuesFound)

	assert.Contains(t, res.stdout, "Rule")
	assert.Contains(t, res.stdout, document.RuleUnmatchedDelimiter)
	assert.Contains(t, res.stdout, "Total:")
}

func TestIntegration_CheckInvalidSort(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "check", "--sort", "random", t.TempDir())
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--sort")
}

func TestIntegration_CheckInvalidFormat(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "check", "--format", "sarif", t.TempDir())
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "format")
}

func TestIntegration_CheckIgnore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vendor", "test.md"), dollarMarkdown)
	writeFile(t, filepath.Join(dir, "clean.md"), cleanMarkdown)

	res := execute(t, "", "check", "--ignore", "**/vendor/**", dir)
	require.NoError(t, res.err)
}

func TestIntegration_InitCreatesConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gomdmath.yml")

	res := execute(t, "", "init", "--output", path)
	require.NoError(t, res.err)

	content := readFile(t, path)
	assert.Contains(t, content, "# gomdmath configuration")
	assert.Contains(t, content, "delimiter:")
	assert.Contains(t, content, "engine:")
	assert.Contains(t, res.stderr, "created configuration file")
}

func TestIntegration_InitRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gomdmath.yml")
	writeFile(t, path, "flavor: gfm\n")

	res := execute(t, "", "init", "--output", path)
	require.ErrorIs(t, res.err, cli.ErrConfigExists)
	assert.Equal(t, "flavor: gfm\n", readFile(t, path))

	res = execute(t, "", "init", "--force", "--output", path)
	require.NoError(t, res.err)
	assert.Contains(t, readFile(t, path), "normalize:")
}

func TestIntegration_InitResolved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "source.yml")
	writeFile(t, source, "delimiter: \"%\"\nflavor: gfm\n")
	path := filepath.Join(dir, "resolved.yml")

	res := execute(t, "", "init", "--resolved", "--config", source, "--output", path)
	require.NoError(t, res.err)

	content := readFile(t, path)
	assert.Contains(t, content, "flavor: gfm")
	assert.Regexp(t, `delimiter: ['"]%['"]`, content)
}

func TestIntegration_HelpListsRulesAndEnvironment(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "check", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Rules:")
	assert.Contains(t, res.stdout, document.RuleTeXInCodeBlock)
	assert.NotContains(t, res.stdout, "Environment:")

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Environment:")
	assert.Contains(t, out.String(), "GOMDMATH_DELIMITER")
	assert.Contains(t, out.String(), "render")
}
