// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	nullTag  = "!!null"
	boolTag  = "!!bool"
	intTag   = "!!int"
	floatTag = "!!float"
	strTag   = "!!str"
)

// Node builds the yaml.v3 node for v. Map keys are emitted in ascending order and floats in
// fixed-point notation.
func (v Value) Node() *yaml.Node {
	switch v.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}

	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: boolTag, Value: strconv.FormatBool(v.b)}

	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: intTag, Value: strconv.FormatInt(v.i, 10)}

	case KindFloat:
		text := FormatDecimal(v.f)

		tag := floatTag
		if !strings.ContainsAny(text, ".") {
			tag = intTag
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}

	case KindString:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: v.s}
		if strings.Contains(v.s, "\n") {
			n.Style = yaml.LiteralStyle
		}

		return n

	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.l {
			n.Content = append(n.Content, item.Node())
		}

		return n

	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.m.Keys() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: k},
				v.m[k].Node(),
			)
		}

		return n

	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}
	}
}

// FromNode decodes a yaml.v3 node tree.
func FromNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return Null(), nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}

		return FromNode(n.Content[0])

	case yaml.AliasNode:
		return FromNode(n.Alias)

	case yaml.ScalarNode:
		return scalarFromNode(n)

	case yaml.SequenceNode:
		out := make(List, 0, len(n.Content))

		for _, c := range n.Content {
			item, err := FromNode(c)
			if err != nil {
				return Null(), err
			}

			out = append(out, item)
		}

		return NewList(out...), nil

	case yaml.MappingNode:
		out := make(Map, len(n.Content)/2)

		for i := 0; i+1 < len(n.Content); i += 2 {
			k, c := n.Content[i], n.Content[i+1]

			// merge keys (<<) bring the aliased map's entries in without overriding.
			if k.ShortTag() == "!!merge" {
				merged, err := FromNode(c)
				if err != nil {
					return Null(), err
				}

				if mm, ok := merged.AsMap(); ok {
					for mk, mv := range mm {
						if _, exists := out[mk]; !exists {
							out[mk] = mv
						}
					}
				}

				continue
			}

			item, err := FromNode(c)
			if err != nil {
				return Null(), err
			}

			out[k.Value] = item
		}

		return NewMap(out), nil

	default:
		return Null(), fmt.Errorf("unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func scalarFromNode(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case nullTag:
		return Null(), nil

	case boolTag:
		var b bool
		if err := n.Decode(&b); err != nil {
			return Null(), fmt.Errorf("error while decoding bool at line %d: %w", n.Line, err)
		}

		return Bool(b), nil

	case intTag:
		var i int64
		if err := n.Decode(&i); err != nil {
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return Null(), fmt.Errorf("error while decoding int at line %d: %w", n.Line, err)
			}

			return Float(f), nil
		}

		return Int(i), nil

	case floatTag:
		var f float64
		if err := n.Decode(&f); err != nil {
			return Null(), fmt.Errorf("error while decoding float at line %d: %w", n.Line, err)
		}

		return Float(f), nil

	default:
		return String(n.Value), nil
	}
}

func (v Value) MarshalYAML() (any, error) {
	return v.Node(), nil
}

func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	out, err := FromNode(n)
	if err != nil {
		return err
	}

	*v = out

	return nil
}

// Decode parses one YAML document. Empty input decodes to null.
func Decode(data []byte) (Value, error) {
	var n yaml.Node

	if err := yaml.Unmarshal(data, &n); err != nil {
		return Null(), fmt.Errorf("error while unmarshalling yaml: %w", err)
	}

	return FromNode(&n)
}

// Encode serializes v with two-space indentation. yaml.v3 does not wrap long lines and
// writes non-ASCII text unescaped.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(v.Node()); err != nil {
		return nil, fmt.Errorf("error while marshalling yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error while marshalling yaml: %w", err)
	}

	return buf.Bytes(), nil
}
