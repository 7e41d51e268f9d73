// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sighupio/rimectl/internal/merge"
	"github.com/sighupio/rimectl/internal/value"
)

// Normalize rewrites every slash-delimited key of raw into nested map form, recursing into
// maps and into lists made only of maps.
//
// Keys are applied in ascending byte order, so "style/font_point" lands after "style" and
// wins when both set the same scalar. Such conflicts are logged.
func Normalize(raw value.Map) value.Map {
	out := make(value.Map, len(raw))

	for _, key := range raw.Keys() {
		parts := merge.SplitPath(key)
		if len(parts) == 0 {
			logrus.Warnf("Ignoring configuration key %q: it has no path components", key)

			continue
		}

		insert(out, parts, normalizeValue(raw[key]), key)
	}

	return out
}

func normalizeValue(v value.Value) value.Value {
	if m, ok := v.AsMap(); ok {
		return value.NewMap(Normalize(m))
	}

	l, ok := v.AsList()
	if !ok || len(l) == 0 {
		return v
	}

	for _, item := range l {
		if !item.IsMap() {
			return v
		}
	}

	out := make(value.List, len(l))

	for i, item := range l {
		m, _ := item.AsMap()
		out[i] = value.NewMap(Normalize(m))
	}

	return value.NewList(out...)
}

func insert(out value.Map, parts []string, v value.Value, key string) {
	current := out

	for i, part := range parts[:len(parts)-1] {
		existing, exists := current[part]

		next, ok := existing.AsMap()
		if !ok {
			if exists {
				logrus.Warnf(
					"Configuration key %q replaces the non-map value at %q",
					key,
					merge.JoinPath(parts[:i+1]...),
				)
			}

			next = value.Map{}
			current[part] = value.NewMap(next)
		}

		current = next
	}

	last := parts[len(parts)-1]

	existing, exists := current[last]
	if !exists {
		current[last] = v

		return
	}

	em, existingIsMap := existing.AsMap()
	vm, newIsMap := v.AsMap()

	if existingIsMap && newIsMap {
		current[last] = value.NewMap(merge.DeepMerge(em, vm))

		return
	}

	if !existing.Equal(v) {
		logrus.Warnf(
			"Configuration key %q overrides a conflicting value at %q: %s -> %s",
			key,
			strings.Join(parts, merge.Separator),
			existing,
			v,
		)
	}

	current[last] = v
}

// Flatten turns a patch section into a flat path map. Keys without a slash whose value is
// a non-empty map are descended; any other entry, including one whose key is already a
// slash path, becomes a single customization.
func Flatten(patch value.Map) value.Map {
	out := make(value.Map, len(patch))

	flatten(patch, "", out)

	return out
}

func flatten(section value.Map, prefix string, out value.Map) {
	for _, key := range section.Keys() {
		full := merge.CleanPath(prefix + merge.Separator + key)
		if full == "" {
			continue
		}

		v := section[key]

		if m, ok := v.AsMap(); ok && len(m) > 0 && !strings.Contains(key, merge.Separator) {
			flatten(m, full, out)

			continue
		}

		out[full] = normalizeValue(v)
	}
}
