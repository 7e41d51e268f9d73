// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package diffs_test

import (
	"testing"

	r3diff "github.com/r3labs/diff/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sighupio/rimectl/internal/diffs"
	"github.com/sighupio/rimectl/internal/value"
)

func base() value.Map {
	return value.Map{
		"menu": value.NewMap(value.Map{
			"page_size": value.Int(5),
		}),
		"style": value.NewMap(value.Map{
			"color_scheme": value.String("native"),
			"font_point":   value.Int(16),
		}),
	}
}

func customized() value.Map {
	return value.Map{
		"menu": value.NewMap(value.Map{
			"page_size":   value.Int(9),
			"alternative": value.Bool(true),
		}),
		"style": value.NewMap(value.Map{
			"font_point": value.Int(16),
		}),
	}
}

func TestBaseChecker_GenerateDiff(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc    string
		current value.Map
		next    value.Map
		want    []string
	}{
		{
			desc:    "no diffs",
			current: base(),
			next:    base(),
			want:    nil,
		},
		{
			desc:    "create, update and delete ordered by path",
			current: base(),
			next:    customized(),
			want: []string{
				"menu/alternative",
				"menu/page_size",
				"style/color_scheme",
			},
		},
		{
			desc:    "empty current config",
			current: value.Map{},
			next:    value.Map{"menu": value.NewMap(value.Map{"page_size": value.Int(5)})},
			want:    []string{"menu/page_size"},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			changelog, err := diffs.NewBaseChecker(tC.current, tC.next).GenerateDiff()
			require.NoError(t, err)

			var got []string
			for _, change := range changelog {
				got = append(got, diffs.JoinPath(change))
			}

			assert.Equal(t, tC.want, got)
		})
	}
}

func TestBaseChecker_DiffToString(t *testing.T) {
	t.Parallel()

	c := diffs.NewBaseChecker(base(), customized())

	changelog, err := c.GenerateDiff()
	require.NoError(t, err)

	want := "+ menu/alternative: true\n" +
		"~ menu/page_size: 5 -> 9\n" +
		"- style/color_scheme: native\n"

	assert.Equal(t, want, c.DiffToString(changelog))
	assert.Empty(t, c.DiffToString(nil))
}

func TestBaseChecker_FilterDiffFromPath(t *testing.T) {
	t.Parallel()

	c := diffs.NewBaseChecker(base(), customized())

	changelog, err := c.GenerateDiff()
	require.NoError(t, err)

	assert.Len(t, c.FilterDiffFromPath(changelog, "menu"), 2)
	assert.Len(t, c.FilterDiffFromPath(changelog, "/style/"), 1)
	assert.Len(t, c.FilterDiffFromPath(changelog, "men"), 0, "prefixes match whole components")
	assert.Len(t, c.FilterDiffFromPath(changelog, ""), 3)
}

func TestBaseChecker_AssertLockedViolations(t *testing.T) {
	t.Parallel()

	c := &diffs.BaseChecker{}

	changelog := r3diff.Changelog{
		{Type: r3diff.UPDATE, Path: []string{"menu", "page_size"}, From: 5, To: 9},
		{Type: r3diff.UPDATE, Path: []string{"key_binder", "bindings", "3", "accept"}, From: "a", To: "b"},
	}

	testCases := []struct {
		desc   string
		locked []string
		want   int
	}{
		{desc: "nothing locked", locked: nil, want: 0},
		{desc: "exact path", locked: []string{"menu/page_size"}, want: 1},
		{desc: "parent path", locked: []string{"menu"}, want: 1},
		{desc: "list index wildcard", locked: []string{"key_binder/bindings/*/accept"}, want: 1},
		{desc: "both", locked: []string{"menu", "key_binder/bindings"}, want: 2},
		{desc: "unrelated", locked: []string{"style"}, want: 0},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			errs := c.AssertLockedViolations(changelog, tC.locked)
			assert.Len(t, errs, tC.want)
		})
	}

	assert.Nil(t, c.AssertLockedViolations(nil, []string{"menu"}))
}
