// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	FullPermAccess         = 0o755
	RWPermAccess           = 0o600
	RWPermAccessPermissive = 0o644
)

// EnsureDir creates the directories to host the file.
// Example: hello/world.md will create the hello dir if it does not exists.
func EnsureDir(fileName string) error {
	dirName := filepath.Dir(fileName)
	if _, serr := os.Stat(dirName); serr != nil {
		if err := os.MkdirAll(dirName, FullPermAccess); err != nil {
			return fmt.Errorf("error while creating directory %s: %w", dirName, err)
		}
	}

	return nil
}

// WriteFileAtomic replaces target with data in one step: the content goes to a temporary
// file in the same directory, which is then renamed over target. Readers observe either the
// old or the new content, never a partial write.
func WriteFileAtomic(target string, data []byte, perm os.FileMode) error {
	if err := EnsureDir(target); err != nil {
		return err
	}

	tmpPath := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+"."+uuid.NewString()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("error while creating temporary file for %s: %w", target, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("error while writing temporary file for %s: %w", target, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("error while syncing temporary file for %s: %w", target, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("error while closing temporary file for %s: %w", target, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("error while replacing %s: %w", target, err)
	}

	return nil
}

// IsTempFile reports whether name was produced by WriteFileAtomic.
func IsTempFile(name string) bool {
	base := filepath.Base(name)

	return len(base) > 0 && base[0] == '.' && filepath.Ext(base) == ".tmp"
}
