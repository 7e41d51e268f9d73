// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/sighupio/rimectl/internal/value"
	yamlx "github.com/sighupio/rimectl/internal/x/yaml"
)

// PatchKey is the only recognized top-level key of a patch file.
const PatchKey = "patch"

var ErrRootNotMap = errors.New("document root is not a map")

// ParseTree decodes and normalizes one YAML document. An empty document is an empty map.
func ParseTree(data []byte) (value.Map, error) {
	v, err := value.Decode(data)
	if err != nil {
		return nil, err
	}

	return rootMap(v)
}

// ReadRoot reads a YAML file without normalizing it. The second return value reports
// whether the file exists.
func ReadRoot(path string) (value.Map, bool, error) {
	v, err := yamlx.FromFile[value.Value](path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return value.Map{}, false, nil
		}

		return value.Map{}, true, err
	}

	if v.IsNull() {
		return value.Map{}, true, nil
	}

	m, ok := v.AsMap()
	if !ok {
		return value.Map{}, true, fmt.Errorf("%w: %s", ErrRootNotMap, path)
	}

	return m, true, nil
}

// LoadTree reads and normalizes a tree file. Missing or unparsable files load as an empty
// map; the second return value reports whether the file exists.
func LoadTree(path string) (value.Map, bool) {
	root, found, err := ReadRoot(path)
	if err != nil {
		logrus.Warnf("Ignoring unparsable configuration file %s: %v", path, err)

		return value.Map{}, found
	}

	if !found {
		logrus.Debugf("Configuration file %s not found", path)
	}

	return Normalize(root), found
}

// LoadPatch reads a patch file and returns its flattened patch section.
func LoadPatch(path string) (value.Map, bool) {
	root, found, err := ReadRoot(path)
	if err != nil {
		logrus.Warnf("Ignoring unparsable patch file %s: %v", path, err)

		return value.Map{}, found
	}

	return PatchSection(root), found
}

// PatchSection returns the flat form of root's patch section, empty when absent.
func PatchSection(root value.Map) value.Map {
	section, ok := root[PatchKey].AsMap()
	if !ok {
		if v, exists := root[PatchKey]; exists && !v.IsNull() {
			logrus.Warnf("Ignoring patch section of kind %s, a map is required", v.Kind())
		}

		return value.Map{}
	}

	return Flatten(section)
}

func rootMap(v value.Value) (value.Map, error) {
	if v.IsNull() {
		return value.Map{}, nil
	}

	m, ok := v.AsMap()
	if !ok {
		return nil, ErrRootNotMap
	}

	return Normalize(m), nil
}
