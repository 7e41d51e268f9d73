// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffs

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	r3diff "github.com/r3labs/diff/v3"

	"github.com/sighupio/rimectl/internal/merge"
	"github.com/sighupio/rimectl/internal/value"
)

var (
	indexToWildcardRegex = regexp.MustCompile(`/\d+(/|$)`)
	errLocked            = errors.New("locked value changed")
)

type Checker interface {
	AssertLockedViolations(diffs r3diff.Changelog, lockedPaths []string) []error
	GenerateDiff() (r3diff.Changelog, error)
	DiffToString(diffs r3diff.Changelog) string
	FilterDiffFromPath(changelog r3diff.Changelog, path string) r3diff.Changelog
}

// BaseChecker compares two configuration trees, typically a domain's base tree and its
// merged tree.
type BaseChecker struct {
	Current map[string]any
	New     map[string]any
}

func NewBaseChecker(current, next value.Map) *BaseChecker {
	return &BaseChecker{
		Current: current.ToAny(),
		New:     next.ToAny(),
	}
}

// GenerateDiff returns the changes from Current to New, ordered by path.
func (c *BaseChecker) GenerateDiff() (r3diff.Changelog, error) {
	changelog, err := r3diff.Diff(c.Current, c.New)
	if err != nil {
		return nil, fmt.Errorf("error while diffing configs: %w", err)
	}

	sort.SliceStable(changelog, func(i, j int) bool {
		return JoinPath(changelog[i]) < JoinPath(changelog[j])
	})

	return changelog, nil
}

// FilterDiffFromPath keeps the changes at path or below it.
func (*BaseChecker) FilterDiffFromPath(changelog r3diff.Changelog, path string) r3diff.Changelog {
	prefix := merge.CleanPath(path)
	if prefix == "" {
		return changelog
	}

	var filtered r3diff.Changelog

	for _, change := range changelog {
		joined := JoinPath(change)

		if joined == prefix || strings.HasPrefix(joined, prefix+merge.Separator) {
			filtered = append(filtered, change)
		}
	}

	return filtered
}

func (*BaseChecker) DiffToString(diffs r3diff.Changelog) string {
	var sb strings.Builder

	for _, change := range diffs {
		switch change.Type {
		case r3diff.CREATE:
			fmt.Fprintf(&sb, "+ %s: %v\n", JoinPath(change), change.To)

		case r3diff.DELETE:
			fmt.Fprintf(&sb, "- %s: %v\n", JoinPath(change), change.From)

		default:
			fmt.Fprintf(&sb, "~ %s: %v -> %v\n", JoinPath(change), change.From, change.To)
		}
	}

	return sb.String()
}

// AssertLockedViolations reports every change touching one of lockedPaths. List indexes
// in a change path match a "*" component.
func (*BaseChecker) AssertLockedViolations(diffs r3diff.Changelog, lockedPaths []string) []error {
	var errs []error

	if len(diffs) == 0 {
		return nil
	}

	for _, change := range diffs {
		if isLockedPathChanged(change, lockedPaths) {
			errs = append(
				errs,
				fmt.Errorf(
					"%w: path %s oldValue %v newValue %v",
					errLocked,
					JoinPath(change),
					change.From,
					change.To,
				),
			)
		}
	}

	return errs
}

func JoinPath(change r3diff.Change) string {
	return merge.JoinPath(change.Path...)
}

func isLockedPathChanged(change r3diff.Change, locked []string) bool {
	joined := JoinPath(change)
	wildcarded := indexToWildcardRegex.ReplaceAllString(joined, "/*$1")

	// A second pass catches consecutive indexes, which share a separator.
	wildcarded = indexToWildcardRegex.ReplaceAllString(wildcarded, "/*$1")

	for _, path := range locked {
		path = merge.CleanPath(path)

		if joined == path || wildcarded == path ||
			strings.HasPrefix(joined, path+merge.Separator) ||
			strings.HasPrefix(wildcarded, path+merge.Separator) {
			return true
		}
	}

	return false
}
