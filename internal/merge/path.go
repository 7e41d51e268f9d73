// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"slices"
	"strings"

	"github.com/sighupio/rimectl/internal/value"
)

// Separator is the only path component delimiter.
const Separator = "/"

// SplitPath splits a slash-delimited path, dropping empty components.
func SplitPath(path string) []string {
	parts := strings.Split(path, Separator)

	return slices.DeleteFunc(parts, func(p string) bool { return p == "" })
}

func JoinPath(parts ...string) string {
	return strings.Join(slices.DeleteFunc(slices.Clone(parts), func(p string) bool { return p == "" }), Separator)
}

// CleanPath returns the canonical form of a path: no leading, trailing or doubled slashes.
func CleanPath(path string) string {
	return JoinPath(SplitPath(path)...)
}

// GetPath walks data along parts. It reports false when a component is missing or an
// intermediate node is not a map.
func GetPath(data value.Map, parts []string) (value.Value, bool) {
	if len(parts) == 0 || data == nil {
		return value.Null(), false
	}

	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].AsMap()
		if !ok {
			return value.Null(), false
		}

		current = next
	}

	v, ok := current[parts[len(parts)-1]]

	return v, ok
}

// SetPath writes v at parts, replacing any non-map intermediate node with a new map.
func SetPath(data value.Map, parts []string, v value.Value) {
	if len(parts) == 0 || data == nil {
		return
	}

	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].AsMap()
		if !ok {
			next = value.Map{}
			current[part] = value.NewMap(next)
		}

		current = next
	}

	current[parts[len(parts)-1]] = v
}

// LeafPaths lists every non-map node of data as a full path, sorted.
func LeafPaths(data value.Map) []string {
	var paths []string

	collectLeaves(data, "", &paths)

	slices.Sort(paths)

	return paths
}

func collectLeaves(data value.Map, prefix string, paths *[]string) {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + Separator + key
		}

		if nested, ok := val.AsMap(); ok {
			collectLeaves(nested, full, paths)

			continue
		}

		*paths = append(*paths, full)
	}
}
