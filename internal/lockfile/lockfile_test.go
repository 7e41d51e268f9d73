// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package lockfile_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sighupio/rimectl/internal/lockfile"
)

func TestLockFile(t *testing.T) {
	t.Parallel()

	lockDir := t.TempDir()

	l := lockfile.NewLockFile(lockDir, "/home/user/Library/Rime")
	require.NoError(t, l.Create())

	pid, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(pid))

	again := lockfile.NewLockFile(lockDir, "/home/user/Library/Rime")
	assert.Equal(t, l.Path, again.Path)
	assert.ErrorIs(t, again.Create(), lockfile.ErrLockFileExists)

	other := lockfile.NewLockFile(lockDir, "/home/user/Rime")
	assert.NotEqual(t, l.Path, other.Path)
	require.NoError(t, other.Create())

	require.NoError(t, l.Remove())
	require.NoError(t, again.Create())
	require.NoError(t, again.Remove())
	require.NoError(t, other.Remove())

	assert.Error(t, l.Remove(), "removing a released lock fails")
}

func TestLockFile_ReplacesStaleLock(t *testing.T) {
	t.Parallel()

	lockDir := t.TempDir()

	l := lockfile.NewLockFile(lockDir, filepath.Join(t.TempDir(), "Rime"))
	require.NoError(t, os.WriteFile(l.Path, []byte("2147483000"), 0o600))

	require.NoError(t, l.Create())

	pid, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(pid))

	require.NoError(t, l.Remove())
}

func TestLockFile_KeepsUnreadableLock(t *testing.T) {
	t.Parallel()

	l := lockfile.NewLockFile(t.TempDir(), "/srv/rime")
	require.NoError(t, os.WriteFile(l.Path, nil, 0o600))

	assert.ErrorIs(t, l.Create(), lockfile.ErrLockFileExists)
}
