// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"fmt"

	"github.com/sighupio/rimectl/internal/value"
)

type Merger struct {
	base   Mergeable
	custom Mergeable
}

func NewMerger(b, c Mergeable) *Merger {
	return &Merger{
		base:   b,
		custom: c,
	}
}

// Merge deep-merges the custom section into the base section and returns the base content.
// A custom model whose section cannot be resolved leaves the base untouched.
func (m *Merger) Merge() (value.Map, error) {
	preparedBase, err := m.base.Get()
	if err != nil {
		return nil, fmt.Errorf("incorrect base file, %w", err)
	}

	preparedCustom, err := m.custom.Get()
	if err != nil {
		return m.base.Content(), nil
	}

	mergedSection := DeepMerge(preparedBase, preparedCustom)

	err = m.base.Walk(mergedSection)

	return m.base.Content(), err
}

// DeepMerge merges patch over base: maps present on both sides are merged recursively,
// every other patch value replaces the base value. Lists are never merged element-wise.
// An empty patch returns base itself. Neither input is modified.
func DeepMerge(base, patch value.Map) value.Map {
	if len(patch) == 0 {
		return base
	}

	out := make(value.Map, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}

	for k, v := range patch {
		if pm, ok := v.AsMap(); ok {
			if bv, ok := out[k]; ok {
				if bm, ok := bv.AsMap(); ok {
					out[k] = value.NewMap(DeepMerge(bm, pm))

					continue
				}
			}
		}

		out[k] = v.Clone()
	}

	return out
}

// Expand turns a flat path map into its nested form. Keys are applied in ascending order,
// so a deeper key always lands after its ancestor.
func Expand(flat value.Map) value.Map {
	out := value.Map{}

	for _, k := range flat.Keys() {
		parts := SplitPath(k)
		if len(parts) == 0 {
			continue
		}

		v := flat[k].Clone()

		if vm, ok := v.AsMap(); ok {
			if existing, ok := GetPath(out, parts); ok {
				if em, ok := existing.AsMap(); ok {
					v = value.NewMap(DeepMerge(em, vm))
				}
			}
		}

		SetPath(out, parts, v)
	}

	return out
}
