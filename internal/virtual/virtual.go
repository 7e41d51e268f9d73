// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package virtual exposes composite hotkey fields that are stored across several entries of
// the key binder configuration.
package virtual

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sighupio/rimectl/internal/store"
	"github.com/sighupio/rimectl/internal/value"
)

const (
	BindingsPath            = "key_binder/bindings"
	SelectFirstCharacterKey = "key_binder/select_first_character"
	SelectLastCharacterKey  = "key_binder/select_last_character"

	FieldCursorPair = "cursor_pair"
	FieldPagePair   = "page_pair"
	FieldSelectPair = "select_pair"
)

var (
	ErrUnknownField = errors.New("unknown virtual field")
	ErrInvalidPairs = errors.New("invalid hotkey pairs")
)

// Store is the subset of store.Store the resolver reads and writes through.
type Store interface {
	Get(d store.Domain, path string) (value.Value, bool)
	Set(d store.Domain, path string, v value.Value) error
}

// Pair is one (action A, action B) hotkey couple.
type Pair struct {
	A string
	B string
}

func (p Pair) String() string {
	return p.A + ":" + p.B
}

// ParsePair parses the "a:b" form produced by Pair.String.
func ParsePair(s string) (Pair, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok || a == "" || b == "" {
		return Pair{}, fmt.Errorf("%w: %q, expected <a>:<b>", ErrInvalidPairs, s)
	}

	return Pair{A: a, B: b}, nil
}

// action is the (send, when) signature identifying a binding.
type action struct {
	send string
	when string
}

func (a action) matches(binding value.Map) bool {
	return text(binding, "send") == a.send && text(binding, "when") == a.when
}

func (a action) binding(accept string) value.Value {
	return value.NewMap(value.Map{
		"when":   value.String(a.when),
		"accept": value.String(accept),
		"send":   value.String(a.send),
	})
}

type pairedField struct {
	a action
	b action
}

type scalarField struct {
	first  string
	second string
}

var (
	pairedFields = map[string]pairedField{
		FieldCursorPair: {
			a: action{send: "Up", when: "composing"},
			b: action{send: "Down", when: "composing"},
		},
		FieldPagePair: {
			a: action{send: "Page_Up", when: "has_menu"},
			b: action{send: "Page_Down", when: "has_menu"},
		},
	}

	scalarFields = map[string]scalarField{
		FieldSelectPair: {
			first:  SelectFirstCharacterKey,
			second: SelectLastCharacterKey,
		},
	}
)

// Fields returns the names of every virtual field, sorted.
func Fields() []string {
	names := make([]string, 0, len(pairedFields)+len(scalarFields))

	for name := range pairedFields {
		names = append(names, name)
	}

	for name := range scalarFields {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Resolver reads and writes virtual fields of the default domain.
type Resolver struct {
	store Store
}

func NewResolver(s Store) *Resolver {
	return &Resolver{store: s}
}

// Read returns the pairs currently stored for field. Paired fields zip the two actions'
// bindings in list order, dropping unmatched entries of the longer side.
func (r *Resolver) Read(field string) ([]Pair, error) {
	if f, ok := pairedFields[field]; ok {
		return r.readPaired(f), nil
	}

	if f, ok := scalarFields[field]; ok {
		return r.readScalar(f), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// Write replaces the pairs stored for field. Bindings unrelated to field keep their order.
func (r *Resolver) Write(field string, pairs []Pair) error {
	if f, ok := pairedFields[field]; ok {
		return r.writePaired(f, pairs)
	}

	if f, ok := scalarFields[field]; ok {
		return r.writeScalar(f, pairs)
	}

	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func (r *Resolver) bindings() value.List {
	v, ok := r.store.Get(store.DomainDefault, BindingsPath)
	if !ok {
		return nil
	}

	list, ok := v.AsList()
	if !ok {
		return nil
	}

	return list
}

func (r *Resolver) readPaired(f pairedField) []Pair {
	var as, bs []string

	for _, item := range r.bindings() {
		binding, ok := item.AsMap()
		if !ok {
			continue
		}

		switch {
		case f.a.matches(binding):
			as = append(as, text(binding, "accept"))

		case f.b.matches(binding):
			bs = append(bs, text(binding, "accept"))
		}
	}

	n := min(len(as), len(bs))
	pairs := make([]Pair, 0, n)

	for i := range n {
		pairs = append(pairs, Pair{A: as[i], B: bs[i]})
	}

	return pairs
}

func (r *Resolver) writePaired(f pairedField, pairs []Pair) error {
	current := r.bindings()
	rebuilt := make(value.List, 0, len(current)+2*len(pairs))

	for _, item := range current {
		if binding, ok := item.AsMap(); ok && (f.a.matches(binding) || f.b.matches(binding)) {
			continue
		}

		rebuilt = append(rebuilt, item)
	}

	for _, p := range pairs {
		rebuilt = append(rebuilt, f.a.binding(p.A), f.b.binding(p.B))
	}

	if err := r.store.Set(store.DomainDefault, BindingsPath, value.NewList(rebuilt...)); err != nil {
		return fmt.Errorf("error while writing %s: %w", BindingsPath, err)
	}

	return nil
}

func (r *Resolver) readScalar(f scalarField) []Pair {
	first := r.scalar(f.first)
	second := r.scalar(f.second)

	if first == "" || second == "" {
		return []Pair{}
	}

	return []Pair{{A: first, B: second}}
}

func (r *Resolver) scalar(path string) string {
	v, ok := r.store.Get(store.DomainDefault, path)
	if !ok || v.IsNull() {
		return ""
	}

	return v.Text()
}

func (r *Resolver) writeScalar(f scalarField, pairs []Pair) error {
	var first, second string

	switch len(pairs) {
	case 0:

	case 1:
		first, second = pairs[0].A, pairs[0].B

	default:
		return fmt.Errorf("%w: at most one pair allowed, got %d", ErrInvalidPairs, len(pairs))
	}

	if err := r.store.Set(store.DomainDefault, f.first, value.String(first)); err != nil {
		return fmt.Errorf("error while writing %s: %w", f.first, err)
	}

	if err := r.store.Set(store.DomainDefault, f.second, value.String(second)); err != nil {
		return fmt.Errorf("error while writing %s: %w", f.second, err)
	}

	return nil
}

func text(m value.Map, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}

	return v.Text()
}
