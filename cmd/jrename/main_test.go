package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points config and data at a temp dir and returns it.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("JRENAME_HOME", home)
	t.Setenv("JRENAME_CONFIG_PATH", filepath.Join(home, "jrename.toml"))
	return home
}

func makeImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
	return dir
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Renames(t *testing.T) {
	setupEnv(t)
	dir := makeImages(t, "A - foo.png", "A.png", "B - bar.png")

	out, err := execute(t, "", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"A - foo.png", "A.png", "B.png"}, listNames(t, dir))
	assert.Contains(t, out, "renamed       B - bar.png -> B.png")
	assert.Contains(t, out, "target-exists A - foo.png (A.png exists)")
	assert.Contains(t, out, "Renamed 1 entry in "+dir+", skipped 2")
}

func TestRootCmd_DryRun(t *testing.T) {
	setupEnv(t)
	dir := makeImages(t, "A - foo.png")

	out, err := execute(t, "", "--dry-run", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"A - foo.png"}, listNames(t, dir))
	assert.Contains(t, out, "would-rename  A - foo.png -> A.png")
	assert.Contains(t, out, "Would rename 1 entry")
}

func TestRootCmd_SplitFull(t *testing.T) {
	setupEnv(t)
	dir := makeImages(t, "Mantis Lords - boss.png")

	_, err := execute(t, "", "--split-full", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mantis_Lords.png"}, listNames(t, dir))
}

func TestRootCmd_ShortNameFails(t *testing.T) {
	setupEnv(t)
	dir := makeImages(t, "ab")

	_, err := execute(t, "", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name too short")
}

func TestRootCmd_DefaultsToExecutableDir(t *testing.T) {
	setupEnv(t)
	dir := makeImages(t, "A - foo.png", "jrename")

	original := locateExecutable
	locateExecutable = func() (string, error) { return filepath.Join(dir, "jrename"), nil }
	defer func() { locateExecutable = original }()

	out, err := execute(t, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"A.png", "jrename"}, listNames(t, dir), "the binary itself is never renamed")
	assert.Contains(t, out, "Renamed 1 entry in "+dir+", skipped 1")
}

func TestRootCmd_MissingDirectory(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRootCmd_Confirmation(t *testing.T) {
	home := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "jrename.toml"), []byte("confirm = true\n"), 0644))

	original := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	defer func() { stdinIsTerminal = original }()

	t.Run("declined", func(t *testing.T) {
		dir := makeImages(t, "A - foo.png")

		out, err := execute(t, "n\n", dir)
		require.NoError(t, err)

		assert.Contains(t, out, "Rename 1 entry? [y/N]")
		assert.Contains(t, out, "Aborted.")
		assert.Equal(t, []string{"A - foo.png"}, listNames(t, dir))
	})

	t.Run("accepted", func(t *testing.T) {
		dir := makeImages(t, "A - foo.png", "B - bar.png")

		out, err := execute(t, "y\n", dir)
		require.NoError(t, err)

		assert.Contains(t, out, "Rename 2 entries? [y/N]")
		assert.Equal(t, 1, strings.Count(out, "A - foo.png -> A.png"), "plan is listed once")
		assert.NotContains(t, out, "renamed       ")
		assert.Contains(t, out, "Renamed 2 entries in "+dir)
		assert.Equal(t, []string{"A.png", "B.png"}, listNames(t, dir))
	})

	t.Run("yes flag skips the prompt", func(t *testing.T) {
		dir := makeImages(t, "A - foo.png")

		out, err := execute(t, "", "--yes", dir)
		require.NoError(t, err)

		assert.NotContains(t, out, "[y/N]")
		assert.Equal(t, []string{"A.png"}, listNames(t, dir))
	})
}

func TestHistoryShowLogCmds(t *testing.T) {
	setupEnv(t)
	dir := makeImages(t, "A - foo.png")

	_, err := execute(t, "", dir)
	require.NoError(t, err)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Rename")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, dir)

	out, err = execute(t, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "A - foo.png")
	assert.Contains(t, out, "A.png")

	out, err = execute(t, "", "log", "-C", dir, "A.png")
	require.NoError(t, err)
	assert.Contains(t, out, "A - foo.png")

	out, err = execute(t, "", "log", "-C", dir, "Z.png")
	require.NoError(t, err)
	assert.Contains(t, out, "No rename history.")
}

func TestHistoryCmd_Empty(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No rename operations recorded.")
}

func TestShowCmd_InvalidID(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", "show", "abc")
	assert.Error(t, err)
}

func TestConfigCmds(t *testing.T) {
	home := setupEnv(t)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at "+filepath.Join(home, "jrename.toml"))

	_, err = execute(t, "", "config", "init")
	assert.Error(t, err, "second init must refuse to overwrite")

	out, err = execute(t, "", "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode:        first-char")
	assert.Contains(t, out, `Delimiter:   " - "`)
}

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := askYesNo(strings.NewReader(tt.input), &out, "Continue?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Continue? [y/N] ", out.String())
	}
}
