// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value holds the generic tree model shared by every rimectl component: a closed
// tagged variant of scalars, lists and string-keyed maps.
package value

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindBool:
		return "bool"

	case KindInt:
		return "int"

	case KindFloat:
		return "float"

	case KindString:
		return "string"

	case KindList:
		return "list"

	case KindMap:
		return "map"

	default:
		return "unknown"
	}
}

// Precision is the number of decimal digits kept when a float is written to a tree.
const Precision = 4

type (
	Map  map[string]Value
	List []Value
)

// Value is one node of a configuration tree. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	l    List
	m    Map
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func NewList(items ...Value) Value {
	if items == nil {
		items = List{}
	}

	return Value{kind: KindList, l: items}
}

func NewMap(m Map) Value {
	if m == nil {
		m = Map{}
	}

	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsMap() bool { return v.kind == KindMap }

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}

	return v.b, true
}

// AsInt widens in the order int, integral float, numeric string.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true

	case KindFloat:
		if v.f != math.Trunc(v.f) || math.IsInf(v.f, 0) {
			return 0, false
		}

		return int64(v.f), true

	case KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, false
		}

		return i, true

	default:
		return 0, false
	}
}

// AsFloat widens in the order int, float, numeric string.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true

	case KindFloat:
		return v.f, true

	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}

		return f, true

	default:
		return 0, false
	}
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}

	return v.s, true
}

func (v Value) AsList() (List, bool) {
	if v.kind != KindList {
		return nil, false
	}

	return v.l, true
}

func (v Value) AsMap() (Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}

	return v.m, true
}

// Text renders a scalar the way it is written to disk. Floats use fixed-point notation.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""

	case KindBool:
		return strconv.FormatBool(v.b)

	case KindInt:
		return strconv.FormatInt(v.i, 10)

	case KindFloat:
		return FormatDecimal(v.f)

	case KindString:
		return v.s

	default:
		return v.String()
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindList:
		parts := make([]string, len(v.l))
		for i, item := range v.l {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case KindMap:
		keys := v.m.Keys()
		parts := make([]string, len(keys))

		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, v.m[k].String())
		}

		return "{" + strings.Join(parts, ", ") + "}"

	case KindString:
		return strconv.Quote(v.s)

	case KindNull:
		return "null"

	default:
		return v.Text()
	}
}

// Canonical rounds every float in v to Precision decimal digits.
func (v Value) Canonical() Value {
	switch v.kind {
	case KindFloat:
		return Float(RoundDecimal(v.f))

	case KindList:
		out := make(List, len(v.l))
		for i, item := range v.l {
			out[i] = item.Canonical()
		}

		return NewList(out...)

	case KindMap:
		out := make(Map, len(v.m))
		for k, item := range v.m {
			out[k] = item.Canonical()
		}

		return NewMap(out)

	default:
		return v
	}
}

func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		out := make(List, len(v.l))
		for i, item := range v.l {
			out[i] = item.Clone()
		}

		return NewList(out...)

	case KindMap:
		return NewMap(v.m.Clone())

	default:
		return v
	}
}

// Equal compares two values structurally. Int and Float are equal when numerically equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		if isNumber(v) && isNumber(o) {
			a, _ := v.AsFloat()
			b, _ := o.AsFloat()

			return a == b
		}

		return false
	}

	switch v.kind {
	case KindNull:
		return true

	case KindBool:
		return v.b == o.b

	case KindInt:
		return v.i == o.i

	case KindFloat:
		return v.f == o.f

	case KindString:
		return v.s == o.s

	case KindList:
		return slices.EqualFunc(v.l, o.l, func(a, b Value) bool { return a.Equal(b) })

	case KindMap:
		return v.m.Equal(o.m)

	default:
		return false
	}
}

func isNumber(v Value) bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Keys returns the map keys in ascending order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func (m Map) Clone() Map {
	if m == nil {
		return nil
	}

	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}

	return out
}

func (m Map) Equal(o Map) bool {
	if len(m) != len(o) {
		return false
	}

	for k, v := range m {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}

// RoundDecimal rounds f to Precision digits by going through its fixed-point text, so the
// stored value is exactly what would be read back from disk.
func RoundDecimal(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}

	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', Precision, 64), 64)
	if err != nil {
		return f
	}

	return r
}

// FormatDecimal never uses exponent notation.
func FormatDecimal(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"

	case math.IsInf(f, 1):
		return ".inf"

	case math.IsInf(f, -1):
		return "-.inf"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
