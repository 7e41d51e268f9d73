// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"

	iox "github.com/sighupio/rimectl/internal/x/io"
)

var ErrLockFileExists = errors.New(
	"lock file exists. Another rimectl watch may be running with PID",
)

// LockFile marks a configuration directory as owned by one long-running process.
type LockFile struct {
	Path string
}

// NewLockFile returns the lock for configDir, kept in lockDir (os.TempDir when empty).
func NewLockFile(lockDir, configDir string) *LockFile {
	if lockDir == "" {
		lockDir = os.TempDir()
	}

	abs, err := filepath.Abs(configDir)
	if err != nil {
		abs = configDir
	}

	sum := sha256.Sum256([]byte(abs))

	return &LockFile{Path: filepath.Join(lockDir, "rimectl-"+hex.EncodeToString(sum[:6])+".lock")}
}

// Create takes the lock, failing with ErrLockFileExists when it is held by a running process.
// A lock left behind by a process that no longer exists is replaced.
func (l *LockFile) Create() error {
	err := l.create()
	if err == nil || !errors.Is(err, ErrLockFileExists) {
		return err
	}

	pid, ok := l.stalePID()
	if !ok {
		return err
	}

	logrus.Warnf("Replacing stale lock file %s left by PID %d", l.Path, pid)

	if rerr := os.Remove(l.Path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		return fmt.Errorf("error while removing stale lock file: %w", rerr)
	}

	return l.create()
}

func (l *LockFile) Remove() error {
	if err := os.Remove(l.Path); err != nil {
		return fmt.Errorf("error while removing lock file: %w", err)
	}

	return nil
}

func (l *LockFile) create() error {
	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, iox.RWPermAccessPermissive)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			pid, _ := os.ReadFile(l.Path)

			return fmt.Errorf("%w %s (remove %s if it is stale)", ErrLockFileExists, pid, l.Path)
		}

		return fmt.Errorf("error while creating lock file: %w", err)
	}

	defer f.Close()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("error while creating lock file: %w", err)
	}

	return nil
}

// stalePID reports the recorded PID when no process with it is running. Unreadable or
// partially written lock files are never considered stale.
func (l *LockFile) stalePID() (int32, bool) {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil || pid <= 0 {
		return 0, false
	}

	exists, err := process.PidExists(int32(pid))
	if err != nil || exists {
		return 0, false
	}

	return int32(pid), true
}
