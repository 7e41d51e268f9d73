// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watcher reloads configuration domains whose files are changed by other programs.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/sighupio/rimectl/internal/store"
	iox "github.com/sighupio/rimectl/internal/x/io"
)

const DefaultSettle = 200 * time.Millisecond

// Reloader is the part of store.Store the watcher drives.
type Reloader interface {
	Changed(d store.Domain) bool
	ReloadDomain(ctx context.Context, d store.Domain) error
}

type Watcher struct {
	dir      string
	settle   time.Duration
	target   Reloader
	onReload func(store.Domain, error)

	ready chan struct{}

	mu     sync.Mutex
	timers map[store.Domain]*time.Timer
}

type Option func(*Watcher)

// WithSettle sets how long a domain's files must stay quiet before it is reloaded.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithReloadHandler registers fn to be called after every reload attempt.
func WithReloadHandler(fn func(store.Domain, error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

func New(dir string, target Reloader, opts ...Option) *Watcher {
	w := &Watcher{
		dir:    dir,
		settle: DefaultSettle,
		target: target,
		ready:  make(chan struct{}),
		timers: make(map[store.Domain]*time.Timer),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the configuration directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error while creating file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("error while watching %s: %w", w.dir, err)
	}

	close(w.ready)

	logrus.Debugf("Watching %s for configuration changes", w.dir)

	due := make(chan store.Domain)
	done := make(chan struct{})

	defer close(done)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			w.handleEvent(event, due, done)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			logrus.Warnf("File watcher error: %v", err)

		case d := <-due:
			w.reload(ctx, d)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, due chan<- store.Domain, done <-chan struct{}) {
	name := filepath.Base(event.Name)

	if iox.IsTempFile(name) || event.Op == fsnotify.Chmod {
		return
	}

	d, ok := store.DomainForFile(name)
	if !ok {
		return
	}

	logrus.Debugf("Detected %s on %s", event.Op, event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[d]; ok {
		t.Stop()
	}

	var timer *time.Timer

	timer = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.timers[d] == timer {
			delete(w.timers, d)
		}
		w.mu.Unlock()

		select {
		case due <- d:
		case <-done:
		}
	})

	w.timers[d] = timer
}

func (w *Watcher) reload(ctx context.Context, d store.Domain) {
	if !w.target.Changed(d) {
		logrus.Debugf("Ignoring change of %s: content matches the last load or save", d)

		return
	}

	err := w.target.ReloadDomain(ctx, d)
	if err != nil {
		logrus.Errorf("Error while reloading %s: %v", d, err)
	} else {
		logrus.Infof("Reloaded %s after an external change", d)
	}

	if w.onReload != nil {
		w.onReload(d, err)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for d, t := range w.timers {
		t.Stop()
		delete(w.timers, d)
	}
}
