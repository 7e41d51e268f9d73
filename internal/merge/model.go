// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"errors"
	"fmt"

	"github.com/sighupio/rimectl/internal/value"
)

var (
	errCannotAccessKey = errors.New("cannot access key")
	errInvalidData     = errors.New("data structure is invalid on key")
)

// Mergeable is one side of a Merger: a tree plus the slash path of the section to merge.
type Mergeable interface {
	Get() (value.Map, error)
	Walk(value.Map) error
	Content() value.Map
	Path() string
}

// DefaultModel addresses the section of content found at path. An empty path is the root.
type DefaultModel struct {
	content value.Map
	path    string
}

func NewDefaultModel(content value.Map, path string) *DefaultModel {
	if content == nil {
		content = value.Map{}
	}

	return &DefaultModel{
		content: content,
		path:    CleanPath(path),
	}
}

func (b *DefaultModel) Content() value.Map {
	return b.content
}

func (b *DefaultModel) Path() string {
	return b.path
}

// Get returns the section map itself, not a copy.
func (b *DefaultModel) Get() (value.Map, error) {
	return section(b.content, SplitPath(b.path))
}

// Walk stores mergedSection at the model path. The parent of the section must exist.
func (b *DefaultModel) Walk(mergedSection value.Map) error {
	parts := SplitPath(b.path)
	if len(parts) == 0 {
		b.content = mergedSection

		return nil
	}

	parent, err := section(b.content, parts[:len(parts)-1])
	if err != nil {
		return err
	}

	parent[parts[len(parts)-1]] = value.NewMap(mergedSection)

	return nil
}

// section descends into data along parts, failing on a missing key or a non-map node.
func section(data value.Map, parts []string) (value.Map, error) {
	current := data

	for _, part := range parts {
		next, ok := current[part]
		if !ok {
			return nil, fmt.Errorf("%w %s on map", errCannotAccessKey, part)
		}

		if current, ok = next.AsMap(); !ok {
			return nil, fmt.Errorf("%w %s", errInvalidData, part)
		}
	}

	return current, nil
}
