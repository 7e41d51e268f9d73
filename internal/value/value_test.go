// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sighupio/rimectl/internal/value"
)

func TestValue_Coercion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc      string
		in        value.Value
		wantInt   int64
		intOK     bool
		wantFloat float64
		floatOK   bool
	}{
		{
			desc:      "int widens to float",
			in:        value.Int(5),
			wantInt:   5,
			intOK:     true,
			wantFloat: 5,
			floatOK:   true,
		},
		{
			desc:      "integral float narrows to int",
			in:        value.Float(18),
			wantInt:   18,
			intOK:     true,
			wantFloat: 18,
			floatOK:   true,
		},
		{
			desc:      "fractional float is not an int",
			in:        value.Float(0.25),
			intOK:     false,
			wantFloat: 0.25,
			floatOK:   true,
		},
		{
			desc:      "numeric string",
			in:        value.String(" 42 "),
			wantInt:   42,
			intOK:     true,
			wantFloat: 42,
			floatOK:   true,
		},
		{
			desc: "bool is not a number",
			in:   value.Bool(true),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			i, ok := tc.in.AsInt()
			assert.Equal(t, tc.intOK, ok)

			if tc.intOK {
				assert.Equal(t, tc.wantInt, i)
			}

			f, ok := tc.in.AsFloat()
			assert.Equal(t, tc.floatOK, ok)

			if tc.floatOK {
				assert.InDelta(t, tc.wantFloat, f, 1e-9)
			}
		})
	}
}

func TestValue_Canonical(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.1235", value.Float(0.123456).Canonical().Text())
	assert.Equal(t, "0", value.Float(1e-7).Canonical().Text())
	assert.Equal(t, "18", value.Float(18.0).Canonical().Text())

	nested := value.NewList(value.Float(1.00004), value.String("x")).Canonical()
	l, ok := nested.AsList()
	require.True(t, ok)
	assert.Equal(t, "1", l[0].Text())
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	a := value.NewMap(value.Map{
		"style": value.NewMap(value.Map{
			"font_point": value.Int(18),
			"fonts":      value.NewList(value.String("a"), value.String("b")),
		}),
	})
	b := a.Clone()

	assert.True(t, a.Equal(b))
	assert.True(t, value.Int(18).Equal(value.Float(18)))
	assert.False(t, value.String("18").Equal(value.Int(18)))

	m, _ := b.AsMap()
	m["style"] = value.Null()

	assert.False(t, a.Equal(b), "clone must not share maps")
}

func TestEncode_FixedPointFloats(t *testing.T) {
	t.Parallel()

	root := value.NewMap(value.Map{
		"patch": value.NewMap(value.Map{
			"style/font_point": value.Float(18),
			"style/alpha":      value.Float(0.0000001).Canonical(),
			"style/corner":     value.Float(2.5),
			"style/font_face":  value.String("PingFang SC"),
			"style/label":      value.String("中文"),
			"style/numeric":    value.String("10"),
		}),
	})

	out, err := value.Encode(root)
	require.NoError(t, err)

	want := `patch:
  style/alpha: 0
  style/corner: 2.5
  style/font_face: PingFang SC
  style/font_point: 18
  style/label: 中文
  style/numeric: "10"
`
	assert.Equal(t, want, string(out))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	in := `
base: &base
  color: blue
menu:
  page_size: 5
  ratio: 0.5
  enabled: true
  nothing: ~
theme:
  <<: *base
  name: dark
list: [1, two]
`
	v, err := value.Decode([]byte(in))
	require.NoError(t, err)

	m, ok := v.AsMap()
	require.True(t, ok)

	menu, _ := m["menu"].AsMap()
	assert.Equal(t, value.KindInt, menu["page_size"].Kind())
	assert.Equal(t, value.KindFloat, menu["ratio"].Kind())
	assert.Equal(t, value.KindBool, menu["enabled"].Kind())
	assert.True(t, menu["nothing"].IsNull())

	theme, _ := m["theme"].AsMap()
	color, _ := theme["color"].AsString()
	assert.Equal(t, "blue", color)

	list, _ := m["list"].AsList()
	assert.Len(t, list, 2)
	assert.Equal(t, value.KindString, list[1].Kind())
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	v, err := value.Decode(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := value.Decode([]byte("a: [1, 2"))
	assert.Error(t, err)
}

func TestFromAny_ToAny(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"a": 1,
		"b": []any{"x", 2.5},
		"c": map[any]any{"d": true},
	}

	v := value.FromAny(in)

	want := map[string]any{
		"a": 1,
		"b": []any{"x", 2.5},
		"c": map[string]any{"d": true},
	}

	assert.Equal(t, want, v.ToAny())
}
