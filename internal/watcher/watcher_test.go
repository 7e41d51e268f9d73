// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sighupio/rimectl/internal/store"
	"github.com/sighupio/rimectl/internal/value"
	"github.com/sighupio/rimectl/internal/watcher"
)

type reloads struct {
	mu      sync.Mutex
	domains []store.Domain
}

func (r *reloads) record(d store.Domain, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.domains = append(r.domains, d)
}

func (r *reloads) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.domains)
}

func startWatcher(t *testing.T) (string, *store.Store, *reloads) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte("menu:\n  page_size: 5\n"), 0o600))

	s := store.New(dir, store.WithDebounce(10*time.Millisecond))
	require.NoError(t, s.LoadAll(context.Background()))

	rec := &reloads{}
	w := watcher.New(dir, s, watcher.WithSettle(20*time.Millisecond), watcher.WithReloadHandler(rec.record))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- w.Run(ctx)
	}()

	select {
	case <-w.Ready():
	case err := <-errCh:
		t.Fatalf("watcher stopped early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not start")
	}

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errCh)
		_ = s.Close(context.Background())
	})

	return dir, s, rec
}

func TestWatcher_ReloadsExternalEdits(t *testing.T) {
	t.Parallel()

	dir, s, rec := startWatcher(t)

	patch := filepath.Join(dir, "default.custom.yaml")
	require.NoError(t, os.WriteFile(patch, []byte("patch:\n  menu/page_size: 8\n"), 0o600))

	assert.Eventually(t, func() bool {
		got, ok := s.Get(store.DomainDefault, "menu/page_size")

		return ok && got.Text() == "8"
	}, 3*time.Second, 20*time.Millisecond)

	assert.GreaterOrEqual(t, rec.count(), 1)
	assert.True(t, s.IsCustomized(store.DomainDefault, "menu/page_size"))
}

func TestWatcher_IgnoresOwnWrites(t *testing.T) {
	t.Parallel()

	_, s, rec := startWatcher(t)

	require.NoError(t, s.Set(store.DomainDefault, "menu/page_size", value.Int(7)))
	require.NoError(t, s.Flush(context.Background()))

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 0, rec.count())

	got, ok := s.Get(store.DomainDefault, "menu/page_size")
	require.True(t, ok)
	assert.Equal(t, "7", got.Text())
}

func TestWatcher_MissingDir(t *testing.T) {
	t.Parallel()

	w := watcher.New(filepath.Join(t.TempDir(), "missing"), store.New(t.TempDir()))

	assert.Error(t, w.Run(context.Background()))
}
