package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codecombiner/pkg/summarize"
	"codecombiner/pkg/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runCLI executes the root command with every state file redirected into dir.
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlagVars()
	t.Cleanup(resetFlagVars)
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	args = append(args,
		"--extensions-file", filepath.Join(dir, "config.json"),
		"--preferences-file", filepath.Join(dir, "preferences.json"),
		"--models-file", filepath.Join(dir, "models.json"),
		"--log-file", filepath.Join(dir, "test.log"),
		"--env", filepath.Join(dir, ".env"),
	)

	var stdout, stderr bytes.Buffer
	RootCmd.SetArgs(args)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)

	err := RootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlagVars() {
	combineOutput, combineCopy, combineSummarize, combineProvider, combineTree = "", false, false, "", false
	listTree = false
	resetYes = false
	providerName = ""
	summarizeProvider = ""
}

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCombineCommand_ToStdout(t *testing.T) {
	state, src := t.TempDir(), t.TempDir()
	file := write(t, filepath.Join(src, "main.go"), "package main\r\n")

	stdout, _, err := runCLI(t, state, "", "combine", file)
	require.NoError(t, err)
	assert.Equal(t, "# main.go\npackage main\n\n\n", stdout)
}

func TestCombineCommand_OutputFileAndReport(t *testing.T) {
	state, src := t.TempDir(), t.TempDir()
	write(t, filepath.Join(src, "a.go"), "package a")
	write(t, filepath.Join(src, "b", "notes.txt"), "notes")
	png := write(t, filepath.Join(src, "logo.png"), "png")
	makefile := write(t, filepath.Join(src, "Makefile"), "all:")
	output := filepath.Join(state, "combined.txt")

	stdout, stderr, err := runCLI(t, state, "", "combine", src, "--output", output)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "# a.go\npackage a\n\n# notes.txt\nnotes\n\n", string(data))

	assert.Contains(t, stderr, "Error: Unsupported extension - "+png+". If it's a code file, use 'extensions add' to add it.")
	assert.Contains(t, stderr, "Error: No extension - "+makefile)
	assert.Contains(t, stderr, "Combined 2 file(s) into "+output)
}

func TestCombineCommand_Tree(t *testing.T) {
	state, src := t.TempDir(), t.TempDir()
	write(t, filepath.Join(src, "a.go"), "package a")

	stdout, _, err := runCLI(t, state, "", "combine", src, "--tree")
	require.NoError(t, err)
	assert.Equal(t, src+"/\n└── a.go\n\n# a.go\npackage a\n\n", stdout)
}

func TestCombineCommand_NothingAccepted(t *testing.T) {
	state, src := t.TempDir(), t.TempDir()
	png := write(t, filepath.Join(src, "logo.png"), "png")

	_, _, err := runCLI(t, state, "", "combine", png)
	assert.ErrorIs(t, err, errNoFiles)
}

func TestListCommand(t *testing.T) {
	state, src := t.TempDir(), t.TempDir()
	write(t, filepath.Join(src, "main.go"), "package main\n")

	stdout, stderr, err := runCLI(t, state, "", "list", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "main.go")
	assert.Contains(t, stdout, "Go")
	assert.Contains(t, stderr, "1 file(s)")
}

func TestExtensionsCommands(t *testing.T) {
	state := t.TempDir()

	stdout, _, err := runCLI(t, state, "", "extensions", "add", ".PROTO")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added .proto")

	_, stderr, err := runCLI(t, state, "", "extensions", "add", ".proto", "c++")
	require.Error(t, err)
	assert.Contains(t, stderr, "Extension .proto already exists")
	assert.Contains(t, stderr, `Invalid extension "c++"`)

	stdout, _, err = runCLI(t, state, "", "extensions", "list")
	require.NoError(t, err)
	assert.Contains(t, strings.Split(stdout, "\n"), ".proto")

	_, _, err = runCLI(t, state, "", "extensions", "remove", ".proto", ".go")
	require.NoError(t, err)
	stdout, _, err = runCLI(t, state, "", "extensions", "list")
	require.NoError(t, err)
	assert.NotContains(t, strings.Split(stdout, "\n"), ".go")

	_, stderr, err = runCLI(t, state, "n\n", "extensions", "reset")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Reset cancelled.")

	stdout, _, err = runCLI(t, state, "", "extensions", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Extensions reset to defaults (62 entries)")
}

func TestProviderCommands(t *testing.T) {
	state := t.TempDir()

	_, _, err := runCLI(t, state, "", "provider", "use", "Nope")
	assert.ErrorIs(t, err, summarize.ErrUnsupportedProvider)

	_, _, err = runCLI(t, state, "", "provider", "use", "Groq")
	require.NoError(t, err)

	_, _, err = runCLI(t, state, "", "provider", "set", "api_key", "secret1234")
	require.NoError(t, err)

	_, _, err = runCLI(t, state, "", "provider", "set", "input_token_limit_enabled", "maybe")
	assert.ErrorIs(t, err, summarize.ErrInvalidSetting)

	_, _, err = runCLI(t, state, "", "provider", "set", "organization_id", "org", "--provider", "Groq")
	assert.ErrorIs(t, err, summarize.ErrInvalidSetting)

	_, _, err = runCLI(t, state, "", "provider", "set", "anthropic_max_tokens", "300", "--provider", "Anthropic")
	require.NoError(t, err)

	stdout, _, err := runCLI(t, state, "", "provider", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Groq")
	assert.Contains(t, stdout, "api_key = ******1234")
	assert.NotContains(t, stdout, "secret1234")
	assert.Contains(t, stdout, "model defaults to llama-3.1-8b-instant")

	stdout, _, err = runCLI(t, state, "", "provider", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* ")
	assert.Contains(t, stdout, "Mistral AI (openai)")

	prefs := summarize.LoadPreferences(filepath.Join(state, "preferences.json"), zap.NewNop())
	assert.Equal(t, "Groq", prefs.CurrentProvider())
	assert.Equal(t, "300", prefs.Settings("Anthropic").String(summarize.KeyAnthropicMaxTokens))
}

func TestSummarizeCommand_LocalValidation(t *testing.T) {
	state := t.TempDir()

	_, _, err := runCLI(t, state, "", "provider", "use", "Groq")
	require.NoError(t, err)
	for _, kv := range [][2]string{
		{"api_key", "k"},
		{"input_token_limit_enabled", "true"},
		{"input_token_limit", "5"},
	} {
		_, _, err = runCLI(t, state, "", "provider", "set", kv[0], kv[1])
		require.NoError(t, err)
	}

	_, _, err = runCLI(t, state, "one two three four five six", "summarize")
	assert.ErrorIs(t, err, summarize.ErrInputTooLarge)

	_, _, err = runCLI(t, state, "one two three four five six", "summarize", "--provider", "Groq")
	assert.ErrorIs(t, err, summarize.ErrInputTooLarge)

	t.Setenv("MISTRAL_API_KEY", "")
	_, _, err = runCLI(t, state, "text", "summarize", "--provider", "Mistral AI")
	assert.ErrorIs(t, err, summarize.ErrMissingCredential)

	_, _, err = runCLI(t, state, "text", "summarize", "--provider", "Local LLM")
	assert.ErrorIs(t, err, summarize.ErrNotImplemented)

	_, _, err = runCLI(t, state, "text", "summarize", "--provider", "Nope")
	assert.ErrorIs(t, err, summarize.ErrUnsupportedProvider)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}
