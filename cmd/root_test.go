// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sighupio/rimectl/cmd"
	"github.com/sighupio/rimectl/internal/parser"
)

const defaultBase = `menu:
  page_size: 5
key_binder:
  select_first_character: bracketleft
  select_last_character: bracketright
  bindings:
    - {when: composing, accept: Control+p, send: Up}
    - {when: composing, accept: Control+n, send: Down}
`

// Commands share the process-wide logger, so these tests do not run in parallel.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := cmd.NewRootCmd(map[string]string{"version": "test"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", dir, "--no-colors", "--debounce", "10ms"}, args...))

	_, err := root.ExecuteC()

	return stdout.String(), err
}

func setupDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(defaultBase), 0o600))

	return dir
}

func TestGetSetRemove(t *testing.T) {
	dir := setupDir(t)

	out, err := run(t, dir, "get", "default", "menu/page_size")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	_, err = run(t, dir, "set", "default", "menu/page_size", "9")
	require.NoError(t, err)

	patch, found := parser.LoadPatch(filepath.Join(dir, "default.custom.yaml"))
	require.True(t, found, "set saves before the command returns")
	assert.Equal(t, map[string]any{"menu/page_size": 9}, patch.ToAny())

	out, err = run(t, dir, "get", "default", "menu/page_size")
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)

	out, err = run(t, dir, "customized", "default", "menu/page_size")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = run(t, dir, "remove", "default", "menu/page_size")
	require.NoError(t, err)

	out, err = run(t, dir, "get", "default", "menu/page_size")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	base, err := os.ReadFile(filepath.Join(dir, "default.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultBase, string(base), "the shipped file is never written")
}

func TestGet_Errors(t *testing.T) {
	dir := setupDir(t)

	_, err := run(t, dir, "get", "default", "menu/missing")
	assert.ErrorContains(t, err, "key not found")

	_, err = run(t, dir, "get", "weasel", "menu/page_size")
	assert.ErrorContains(t, err, "unknown configuration domain")

	_, err = run(t, dir, "get", "default")
	assert.Error(t, err)
}

func TestSet_Collections(t *testing.T) {
	dir := setupDir(t)

	_, err := run(t, dir, "set", "default", "switcher/hotkeys", "[Control+grave, F4]")
	require.NoError(t, err)

	out, err := run(t, dir, "get", "default", "switcher/hotkeys")
	require.NoError(t, err)
	assert.Equal(t, "- Control+grave\n- F4\n", out)
}

func TestList(t *testing.T) {
	dir := setupDir(t)

	_, err := run(t, dir, "set", "default", "menu/alternative", "true")
	require.NoError(t, err)

	out, err := run(t, dir, "list", "default", "--filter", "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "menu/page_size")
	assert.Contains(t, out, "menu/alternative")
	assert.NotContains(t, out, "key_binder")

	out, err = run(t, dir, "list", "default", "--customized")
	require.NoError(t, err)
	assert.Contains(t, out, "menu/alternative")
	assert.NotContains(t, out, "menu/page_size")
}

func TestPair(t *testing.T) {
	dir := setupDir(t)

	out, err := run(t, dir, "pair", "get", "cursor_pair")
	require.NoError(t, err)
	assert.Equal(t, "Control+p:Control+n\n", out)

	_, err = run(t, dir, "pair", "set", "cursor_pair", "Control+k:Control+j", "Alt+k:Alt+j")
	require.NoError(t, err)

	out, err = run(t, dir, "pair", "get", "cursor_pair")
	require.NoError(t, err)
	assert.Equal(t, "Control+k:Control+j\nAlt+k:Alt+j\n", out)

	_, err = run(t, dir, "pair", "set", "cursor_pair", "broken")
	assert.ErrorContains(t, err, "invalid hotkey pairs")

	_, err = run(t, dir, "pair", "get", "shift_pair")
	assert.ErrorContains(t, err, "unknown virtual field")
}

func TestEdit(t *testing.T) {
	dir := setupDir(t)

	out, err := run(t, dir, "edit", "show", "default")
	require.NoError(t, err)
	assert.Empty(t, out)

	input := filepath.Join(t.TempDir(), "patch.yaml")
	require.NoError(t, os.WriteFile(input, []byte("patch:\n  menu/page_size: 6\n"), 0o600))

	_, err = run(t, dir, "edit", "save", "default", input)
	require.NoError(t, err)

	out, err = run(t, dir, "edit", "show", "default")
	require.NoError(t, err)
	assert.Equal(t, "patch:\n  menu/page_size: 6\n", out)

	require.NoError(t, os.WriteFile(input, []byte("patch: [oops"), 0o600))

	_, err = run(t, dir, "edit", "save", "default", input)
	assert.ErrorContains(t, err, "invalid configuration text")
}

func TestDiff(t *testing.T) {
	dir := setupDir(t)

	_, err := run(t, dir, "set", "default", "menu/page_size", "9")
	require.NoError(t, err)

	out, err := run(t, dir, "diff", "default")
	require.NoError(t, err)
	assert.Equal(t, "~ menu/page_size: 5 -> 9\n", out)

	_, err = run(t, dir, "diff", "default", "--locked", "menu")
	assert.ErrorIs(t, err, cmd.ErrLockedChanged)

	out, err = run(t, dir, "diff", "default", "--path", "key_binder")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValidate(t *testing.T) {
	dir := setupDir(t)

	schema := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(schema, []byte(`type: object
properties:
  menu:
    type: object
    properties:
      page_size:
        type: integer
        maximum: 10
`), 0o600))

	_, err := run(t, dir, "validate", "default", "--schema", schema)
	require.NoError(t, err)

	_, err = run(t, dir, "set", "default", "menu/page_size", "20")
	require.NoError(t, err)

	out, err := run(t, dir, "validate", "default", "--schema", schema)
	assert.ErrorIs(t, err, cmd.ErrValidationFailed)
	assert.Contains(t, out, "menu/page_size")
	assert.Contains(t, out, "yes")

	_, err = run(t, dir, "validate", "default")
	assert.Error(t, err, "--schema is required")
}

func TestStatus(t *testing.T) {
	dir := setupDir(t)

	out, err := run(t, dir, "status")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")

	var defaultLine, squirrelLine string

	for _, line := range lines {
		switch {
		case strings.Contains(line, "default"):
			defaultLine = line

		case strings.Contains(line, "squirrel"):
			squirrelLine = line
		}
	}

	assert.Contains(t, defaultLine, "found")
	assert.Contains(t, squirrelLine, "bundled example")
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "version: test\n", out)
}

func TestInvalidSettings(t *testing.T) {
	_, err := run(t, t.TempDir(), "--debounce", "0s", "version")
	assert.ErrorContains(t, err, "invalid settings")
}

func TestSet_Debounced(t *testing.T) {
	dir := setupDir(t)

	start := time.Now()

	_, err := run(t, dir, "--debounce", "50ms", "set", "default", "menu/page_size", "7")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)

	patch, found := parser.LoadPatch(filepath.Join(dir, "default.custom.yaml"))
	require.True(t, found)
	assert.Equal(t, map[string]any{"menu/page_size": 7}, patch.ToAny())
}
