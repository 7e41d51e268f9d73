// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package santhosh

import (
	"errors"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sighupio/rimectl/internal/merge"
)

// Violation is one leaf validation failure, addressed by configuration path.
type Violation struct {
	Path    string
	Message string
}

// GetViolations flattens a validation error into its leaf causes, ordered by path.
func GetViolations(err error) []Violation {
	var verr *jsonschema.ValidationError

	if !errors.As(err, &verr) {
		return nil
	}

	var out []Violation

	collectViolations(verr, &out)

	slices.SortStableFunc(out, func(a, b Violation) int {
		return strings.Compare(a.Path, b.Path)
	})

	return slices.Compact(out)
}

func collectViolations(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		*out = append(*out, Violation{
			Path:    PtrToPath(err.InstanceLocation),
			Message: err.Message,
		})

		return
	}

	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}

// GetPtrPaths returns the distinct configuration paths mentioned by a validation error.
func GetPtrPaths(err error) []string {
	var verr *jsonschema.ValidationError

	if !errors.As(err, &verr) {
		return nil
	}

	ptrs := extractPtrs(verr)

	paths := make([]string, 0, len(ptrs))
	for _, p := range ptrs {
		paths = append(paths, PtrToPath(p))
	}

	slices.Sort(paths)

	return slices.Compact(paths)
}

func extractPtrs(err *jsonschema.ValidationError) []string {
	ptrs := []string{err.InstanceLocation}

	for _, cause := range err.Causes {
		ptrs = append(ptrs, extractPtrs(cause)...)
	}

	return ptrs
}

// PtrToPath converts a JSON pointer into a slash configuration path. Escaped "/" inside a
// component cannot occur in normalized trees and is left as "~1".
func PtrToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")

	parts := merge.SplitPath(ptr)
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}

	return merge.JoinPath(parts...)
}
