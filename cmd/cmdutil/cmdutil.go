// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sighupio/rimectl/internal/value"
)

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrParsingValue  = errors.New("error while parsing value")
	ErrParsingFlag   = errors.New("error while parsing flag")
	ErrWritingOutput = errors.New("error while writing output")
)

// ParseValue reads a command line argument as YAML, so "18" is an integer, "true" a
// boolean and "[a, b]" a list. Blank input is kept as a string.
func ParseValue(raw string) (value.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return value.String(raw), nil
	}

	v, err := value.Decode([]byte(raw))
	if err != nil {
		return value.Null(), fmt.Errorf("%w %q: %w", ErrParsingValue, raw, err)
	}

	return v, nil
}

// PrintValue writes scalars as plain text and collections as YAML.
func PrintValue(w io.Writer, v value.Value) error {
	var out string

	switch v.Kind() {
	case value.KindList, value.KindMap:
		data, err := value.Encode(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWritingOutput, err)
		}

		out = string(data)

	default:
		out = v.Text() + "\n"
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingOutput, err)
	}

	return nil
}

// Truncate shortens s to at most n runes for table cells.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}

	return string(r[:n-3]) + "..."
}
