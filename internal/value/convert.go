// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
)

// FromAny converts the output of a generic decoder (yaml, json) into a Value.
// Unknown types are rendered with fmt.
func FromAny(in any) Value {
	switch v := in.(type) {
	case nil:
		return Null()

	case Value:
		return v

	case bool:
		return Bool(v)

	case int:
		return Int(int64(v))

	case int32:
		return Int(int64(v))

	case int64:
		return Int(v)

	case uint:
		return Int(int64(v))

	case uint64:
		return Int(int64(v))

	case float32:
		return Float(float64(v))

	case float64:
		return Float(v)

	case string:
		return String(v)

	case []any:
		out := make(List, len(v))
		for i, item := range v {
			out[i] = FromAny(item)
		}

		return NewList(out...)

	case []string:
		out := make(List, len(v))
		for i, item := range v {
			out[i] = String(item)
		}

		return NewList(out...)

	case map[string]any:
		out := make(Map, len(v))
		for k, item := range v {
			out[k] = FromAny(item)
		}

		return NewMap(out)

	case map[any]any:
		out := make(Map, len(v))
		for k, item := range v {
			out[fmt.Sprintf("%v", k)] = FromAny(item)
		}

		return NewMap(out)

	case Map:
		return NewMap(v)

	case List:
		return NewList(v...)

	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// ToAny converts v into plain Go values (map[string]any, []any, scalars), the form
// expected by diff and schema libraries.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b

	case KindInt:
		return int(v.i)

	case KindFloat:
		return v.f

	case KindString:
		return v.s

	case KindList:
		out := make([]any, len(v.l))
		for i, item := range v.l {
			out[i] = item.ToAny()
		}

		return out

	case KindMap:
		return v.m.ToAny()

	default:
		return nil
	}
}

func (m Map) ToAny() map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = item.ToAny()
	}

	return out
}
