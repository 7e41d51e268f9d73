// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"crypto/sha256"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sighupio/rimectl/internal/merge"
	"github.com/sighupio/rimectl/internal/parser"
	"github.com/sighupio/rimectl/internal/value"
	"github.com/sighupio/rimectl/internal/writer"
)

var (
	ErrInvalidPath    = errors.New("invalid configuration path")
	ErrInvalidRawText = errors.New("invalid configuration text")
)

//go:embed examples/*.yaml
var bundledExamples embed.FS

type DomainStatus struct {
	Domain         Domain
	BasePath       string
	PatchPath      string
	BaseFound      bool
	PatchFound     bool
	Fallback       bool
	Customizations int
}

type domainState struct {
	mu     sync.Mutex
	base   value.Map
	patch  value.Map
	merged value.Map
	status DomainStatus
}

// Store owns the base tree, patch map and merged tree of every domain.
type Store struct {
	dir      string
	window   time.Duration
	examples fs.FS
	onResult func(writer.Result)

	writer  *writer.Writer
	domains map[Domain]*domainState

	digestMu sync.Mutex
	digests  map[string][sha256.Size]byte
}

type Option func(*Store)

func WithDebounce(window time.Duration) Option {
	return func(s *Store) {
		s.window = window
	}
}

// WithResultHandler registers fn to receive the outcome of every persisted write. fn runs
// on the writing goroutine and must not call back into the Store synchronously.
func WithResultHandler(fn func(writer.Result)) Option {
	return func(s *Store) {
		s.onResult = fn
	}
}

// WithExamples replaces the bundled example trees used as fallback.
func WithExamples(fsys fs.FS) Option {
	return func(s *Store) {
		s.examples = fsys
	}
}

func New(dir string, opts ...Option) *Store {
	examples, _ := fs.Sub(bundledExamples, "examples")

	s := &Store{
		dir:      dir,
		window:   writer.DefaultWindow,
		examples: examples,
		domains:  make(map[Domain]*domainState),
		digests:  make(map[string][sha256.Size]byte),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, d := range Domains() {
		s.domains[d] = &domainState{
			base:   value.Map{},
			patch:  value.Map{},
			merged: value.Map{},
			status: DomainStatus{
				Domain:    d,
				BasePath:  s.BasePath(d),
				PatchPath: s.PatchPath(d),
			},
		}
	}

	s.writer = writer.New(s.window, s.handleResult)

	return s
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) BasePath(d Domain) string {
	return filepath.Join(s.dir, d.BaseFile())
}

func (s *Store) PatchPath(d Domain) string {
	return filepath.Join(s.dir, d.PatchFile())
}

func (s *Store) state(d Domain) (*domainState, error) {
	st, ok := s.domains[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, d)
	}

	return st, nil
}

// LoadAll loads every domain from disk. Domains load concurrently.
func (s *Store) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, d := range Domains() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("error while loading %s: %w", d, err)
			}

			return s.load(d)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error while loading configuration: %w", err)
	}

	return nil
}

// Reload persists pending edits, then replaces every domain's state with what is on disk.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.writer.Flush(ctx); err != nil {
		logrus.Warnf("Reloading after a failed save: %v", err)
	}

	return s.LoadAll(ctx)
}

// ReloadDomain persists pending edits, then reloads d only.
func (s *Store) ReloadDomain(ctx context.Context, d Domain) error {
	if _, err := s.state(d); err != nil {
		return err
	}

	if err := s.writer.Flush(ctx); err != nil {
		logrus.Warnf("Reloading %s after a failed save: %v", d, err)
	}

	return s.load(d)
}

func (s *Store) load(d Domain) error {
	st, err := s.state(d)
	if err != nil {
		return err
	}

	basePath, patchPath := s.BasePath(d), s.PatchPath(d)

	base, baseFound := parser.LoadTree(basePath)
	patch, patchFound := parser.LoadPatch(patchPath)

	fallback := false

	if !baseFound && !patchFound {
		example, err := s.loadExample(d)
		if err != nil {
			logrus.Warnf("No configuration found for %s in %s and no bundled example: %v", d, s.dir, err)
		} else {
			logrus.Warnf("No configuration found for %s in %s, using the bundled example", d, s.dir)

			base = example
			fallback = true
		}
	}

	merged, err := mergeTrees(base, patch)
	if err != nil {
		return fmt.Errorf("error while merging %s: %w", d, err)
	}

	st.mu.Lock()
	st.base = base
	st.patch = patch
	st.merged = merged
	st.status = DomainStatus{
		Domain:         d,
		BasePath:       basePath,
		PatchPath:      patchPath,
		BaseFound:      baseFound,
		PatchFound:     patchFound,
		Fallback:       fallback,
		Customizations: len(patch),
	}
	st.mu.Unlock()

	s.recordDigest(basePath)
	s.recordDigest(patchPath)

	logrus.Debugf("Loaded %s: %d customizations", d, len(patch))

	return nil
}

func (s *Store) loadExample(d Domain) (value.Map, error) {
	if s.examples == nil {
		return nil, fs.ErrNotExist
	}

	data, err := fs.ReadFile(s.examples, d.BaseFile())
	if err != nil {
		return nil, fmt.Errorf("error while reading bundled example: %w", err)
	}

	return parser.ParseTree(data)
}

// mergeTrees computes DeepMerge(base, Expand(patch)) on a copy of base, so the result can
// be modified in place without touching base.
func mergeTrees(base, patch value.Map) (value.Map, error) {
	merged, err := merge.NewMerger(
		merge.NewDefaultModel(base.Clone(), ""),
		merge.NewDefaultModel(merge.Expand(patch), ""),
	).Merge()
	if err != nil {
		return nil, err
	}

	return merged, nil
}

// Get returns the merged value at path. It reports false for unknown domains, missing keys
// and paths crossing a non-map node.
func (s *Store) Get(d Domain, path string) (value.Value, bool) {
	st, err := s.state(d)
	if err != nil {
		return value.Null(), false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	v, ok := merge.GetPath(st.merged, merge.SplitPath(path))
	if !ok {
		return value.Null(), false
	}

	return v.Clone(), true
}

// Set writes v at path in the merged tree and the patch map and schedules its persistence.
// Floats are rounded to value.Precision digits first.
func (s *Store) Set(d Domain, path string, v value.Value) error {
	st, err := s.state(d)
	if err != nil {
		return err
	}

	parts := merge.SplitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	key := merge.JoinPath(parts...)
	v = v.Canonical()

	st.mu.Lock()
	merge.SetPath(st.merged, parts, v.Clone())
	st.patch[key] = v.Clone()
	st.status.Customizations = len(st.patch)
	st.mu.Unlock()

	if err := s.writer.Schedule(writer.Key{Domain: string(d), Path: key}, s.PatchPath(d), v); err != nil {
		return fmt.Errorf("error while scheduling save of %s: %w", key, err)
	}

	return nil
}

// Remove drops the customization at path, recomputes the merged tree and saves the patch
// file immediately.
func (s *Store) Remove(d Domain, path string) error {
	st, err := s.state(d)
	if err != nil {
		return err
	}

	key := merge.CleanPath(path)
	if key == "" {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s.writer.Cancel(writer.Key{Domain: string(d), Path: key})

	if _, ok := st.patch[key]; !ok {
		return nil
	}

	delete(st.patch, key)

	merged, err := mergeTrees(st.base, st.patch)
	if err != nil {
		return fmt.Errorf("error while merging %s: %w", d, err)
	}

	st.merged = merged
	st.status.Customizations = len(st.patch)

	if err := s.writer.WritePatch(string(d), s.PatchPath(d), st.patch); err != nil {
		return fmt.Errorf("error while saving %s: %w", s.PatchPath(d), err)
	}

	return nil
}

func (s *Store) IsCustomized(d Domain, path string) bool {
	st, err := s.state(d)
	if err != nil {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.patch[merge.CleanPath(path)]

	return ok
}

// ListKeys returns every leaf path of the merged tree, sorted.
func (s *Store) ListKeys(d Domain) []string {
	st, err := s.state(d)
	if err != nil {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return merge.LeafPaths(st.merged)
}

// Customizations returns a copy of the patch map.
func (s *Store) Customizations(d Domain) value.Map {
	st, err := s.state(d)
	if err != nil {
		return value.Map{}
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.patch.Clone()
}

// Base returns a copy of the base tree.
func (s *Store) Base(d Domain) value.Map {
	st, err := s.state(d)
	if err != nil {
		return value.Map{}
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.base.Clone()
}

// Merged returns a copy of the merged tree.
func (s *Store) Merged(d Domain) value.Map {
	st, err := s.state(d)
	if err != nil {
		return value.Map{}
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.merged.Clone()
}

func (s *Store) Status(d Domain) (DomainStatus, error) {
	st, err := s.state(d)
	if err != nil {
		return DomainStatus{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.status, nil
}

// LoadRawText returns the patch file content, empty when the file does not exist.
func (s *Store) LoadRawText(d Domain) (string, error) {
	if _, err := s.state(d); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.PatchPath(d))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("error while reading %s: %w", s.PatchPath(d), err)
	}

	return string(data), nil
}

// SaveRawText replaces the patch file with content and reloads. Edits still pending for d
// are discarded in favour of content.
func (s *Store) SaveRawText(ctx context.Context, d Domain, content string) error {
	if _, err := s.state(d); err != nil {
		return err
	}

	if _, err := parser.ParseTree([]byte(content)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRawText, err)
	}

	s.writer.CancelDomain(string(d))

	path := s.PatchPath(d)

	if err := s.writer.WriteFile(string(d), path, []byte(content)); err != nil {
		return fmt.Errorf("error while saving %s: %w", path, err)
	}

	return s.Reload(ctx)
}

// Flush persists every pending edit now. Once it returns without error the files on disk
// reflect the in-memory state.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.writer.Flush(ctx); err != nil {
		return fmt.Errorf("error while saving pending edits: %w", err)
	}

	return nil
}

// Close flushes pending edits and stops accepting new ones.
func (s *Store) Close(ctx context.Context) error {
	if err := s.writer.Stop(ctx); err != nil {
		return fmt.Errorf("error while saving pending edits: %w", err)
	}

	return nil
}

// Pending returns the number of edits waiting for their quiescence window.
func (s *Store) Pending() int {
	return s.writer.Pending()
}

// Changed reports whether d's files differ from what this Store last loaded or wrote.
func (s *Store) Changed(d Domain) bool {
	for _, path := range []string{s.BasePath(d), s.PatchPath(d)} {
		current, found := fileDigest(path)

		s.digestMu.Lock()
		known, recorded := s.digests[path]
		s.digestMu.Unlock()

		if found != recorded || current != known {
			return true
		}
	}

	return false
}

func (s *Store) handleResult(res writer.Result) {
	if res.Err == nil {
		s.digestMu.Lock()
		s.digests[res.File] = sha256.Sum256(res.Data)
		s.digestMu.Unlock()
	}

	if s.onResult != nil {
		s.onResult(res)
	}
}

func (s *Store) recordDigest(path string) {
	sum, found := fileDigest(path)

	s.digestMu.Lock()
	defer s.digestMu.Unlock()

	if !found {
		delete(s.digests, path)

		return
	}

	s.digests[path] = sum
}

func fileDigest(path string) ([sha256.Size]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, false
	}

	return sha256.Sum256(data), true
}
