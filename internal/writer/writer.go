// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package writer persists patch map edits to patch files. Repeated edits of the same
// (domain, path) key within the quiescence window collapse into one write of the latest
// value; every write is a full-file atomic replace.
package writer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sighupio/rimectl/internal/parser"
	"github.com/sighupio/rimectl/internal/value"
	iox "github.com/sighupio/rimectl/internal/x/io"
)

// DefaultWindow is the quiescence window used when none is configured.
const DefaultWindow = 300 * time.Millisecond

var ErrStopped = errors.New("patch writer is stopped")

type Key struct {
	Domain string
	Path   string
}

func (k Key) String() string {
	return k.Domain + ":" + k.Path
}

// Result is the outcome of one persisted write. Key.Path is empty for whole-patch writes.
type Result struct {
	Key  Key
	File string
	Data []byte
	Err  error
}

type pendingWrite struct {
	timer *time.Timer
	file  string
	value value.Value
	done  chan struct{}
}

type Writer struct {
	window   time.Duration
	onResult func(Result)

	mu      sync.Mutex
	pending map[Key]*pendingWrite
	stopped bool

	filesMu sync.Mutex
	files   map[string]*sync.Mutex
}

func New(window time.Duration, onResult func(Result)) *Writer {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Writer{
		window:   window,
		onResult: onResult,
		pending:  make(map[Key]*pendingWrite),
		files:    make(map[string]*sync.Mutex),
	}
}

func (w *Writer) Window() time.Duration {
	return w.window
}

// Schedule arms a write of v at key.Path in file, replacing any write pending for key.
func (w *Writer) Schedule(key Key, file string, v value.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return ErrStopped
	}

	if prev, ok := w.pending[key]; ok {
		if prev.timer.Stop() {
			close(prev.done)
		}
	}

	p := &pendingWrite{
		file:  file,
		value: v,
		done:  make(chan struct{}),
	}
	p.timer = time.AfterFunc(w.window, func() { w.fire(key, p) })

	w.pending[key] = p

	return nil
}

// Cancel drops the write pending for key, if any.
func (w *Writer) Cancel(key Key) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancelLocked(key)
}

// CancelDomain drops every write pending for domain.
func (w *Writer) CancelDomain(domain string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for key := range w.pending {
		if key.Domain == domain {
			w.cancelLocked(key)
		}
	}
}

func (w *Writer) cancelLocked(key Key) {
	p, ok := w.pending[key]
	if !ok {
		return
	}

	delete(w.pending, key)

	if p.timer.Stop() {
		close(p.done)
	}
}

// Pending returns the number of armed writes.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.pending)
}

func (w *Writer) fire(key Key, p *pendingWrite) {
	defer close(p.done)

	lock := w.fileLock(p.file)

	lock.Lock()
	defer lock.Unlock()

	// Checked under the file lock so a Cancel followed by WritePatch can never be
	// overtaken by this write.
	w.mu.Lock()
	current, ok := w.pending[key]
	w.mu.Unlock()

	if !ok || current != p {
		return
	}

	_ = w.commitLocked(key, p)

	w.mu.Lock()
	if w.pending[key] == p {
		delete(w.pending, key)
	}
	w.mu.Unlock()
}

func (w *Writer) commitLocked(key Key, p *pendingWrite) error {
	return w.persistLocked(key, p.file, func(patch value.Map) value.Map {
		patch[key.Path] = p.value

		return patch
	})
}

// Flush commits every armed write now and waits for writes already in progress.
func (w *Writer) Flush(ctx context.Context) error {
	type due struct {
		key Key
		p   *pendingWrite
	}

	var (
		now     []due
		running []*pendingWrite
	)

	w.mu.Lock()

	for key, p := range w.pending {
		if p.timer.Stop() {
			delete(w.pending, key)

			now = append(now, due{key: key, p: p})

			continue
		}

		running = append(running, p)
	}

	w.mu.Unlock()

	var errs []error

	for _, d := range now {
		lock := w.fileLock(d.p.file)

		lock.Lock()
		err := w.commitLocked(d.key, d.p)
		lock.Unlock()

		if err != nil {
			errs = append(errs, err)
		}

		close(d.p.done)
	}

	for _, p := range running {
		select {
		case <-p.done:

		case <-ctx.Done():
			return fmt.Errorf("error while waiting for pending writes: %w", ctx.Err())
		}
	}

	return errors.Join(errs...)
}

// Stop flushes pending writes and rejects further schedules.
func (w *Writer) Stop(ctx context.Context) error {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	return w.Flush(ctx)
}

// WritePatch synchronously replaces the patch section of file with patch. Other root keys
// of the file are preserved.
func (w *Writer) WritePatch(domain, file string, patch value.Map) error {
	return w.persist(Key{Domain: domain}, file, func(value.Map) value.Map {
		return patch.Clone()
	})
}

// WriteFile synchronously replaces file with data, serialized with every other write to file.
func (w *Writer) WriteFile(domain, file string, data []byte) error {
	lock := w.fileLock(file)

	lock.Lock()
	defer lock.Unlock()

	key := Key{Domain: domain}

	err := iox.WriteFileAtomic(file, data, iox.RWPermAccessPermissive)
	if err != nil {
		logrus.Errorf("Error while saving %s to %s: %v", key, file, err)

		data = nil
	}

	if w.onResult != nil {
		w.onResult(Result{Key: key, File: file, Data: data, Err: err})
	}

	return err
}

func (w *Writer) persist(key Key, file string, mutate func(value.Map) value.Map) error {
	lock := w.fileLock(file)

	lock.Lock()
	defer lock.Unlock()

	return w.persistLocked(key, file, mutate)
}

func (w *Writer) persistLocked(key Key, file string, mutate func(value.Map) value.Map) error {
	data, err := writePatchFile(file, mutate)

	if err != nil {
		logrus.Errorf("Error while saving %s to %s: %v", key, file, err)
	} else {
		logrus.Debugf("Saved %s to %s", key, file)
	}

	if w.onResult != nil {
		w.onResult(Result{Key: key, File: file, Data: data, Err: err})
	}

	return err
}

func (w *Writer) fileLock(file string) *sync.Mutex {
	w.filesMu.Lock()
	defer w.filesMu.Unlock()

	lock, ok := w.files[file]
	if !ok {
		lock = &sync.Mutex{}
		w.files[file] = lock
	}

	return lock
}

// writePatchFile reads file's root map (empty when missing or unparsable), applies mutate to
// its flat patch section and atomically writes the result back.
func writePatchFile(file string, mutate func(value.Map) value.Map) ([]byte, error) {
	root, _, err := parser.ReadRoot(file)
	if err != nil {
		logrus.Warnf("Replacing unparsable patch file %s: %v", file, err)

		root = value.Map{}
	}

	patch := mutate(parser.PatchSection(root))

	root[parser.PatchKey] = value.NewMap(patch)

	data, err := value.Encode(value.NewMap(root))
	if err != nil {
		return nil, fmt.Errorf("error while encoding %s: %w", file, err)
	}

	if err := iox.WriteFileAtomic(file, data, iox.RWPermAccessPermissive); err != nil {
		return nil, err
	}

	return data, nil
}
