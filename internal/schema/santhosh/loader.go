// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package santhosh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sighupio/rimectl/internal/value"
)

func LoadSchema(schemaPath string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	return CompileSchema(schemaPath, data)
}

// CompileSchema compiles data registered under url. YAML documents are accepted and
// converted to JSON first.
func CompileSchema(url string, data []byte) (*jsonschema.Schema, error) {
	if !json.Valid(data) {
		doc, err := value.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", url, err)
		}

		data, err = json.Marshal(doc.ToAny())
		if err != nil {
			return nil, fmt.Errorf("failed to convert schema %s to json: %w", url, err)
		}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add resource to json schema compiler: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile json schema: %w", err)
	}

	return schema, nil
}

// Validate checks tree against schema. Numbers reach the validator as json.Number so
// integers keep their type.
func Validate(schema *jsonschema.Schema, tree value.Map) error {
	data, err := json.Marshal(tree.ToAny())
	if err != nil {
		return fmt.Errorf("failed to convert configuration to json: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to convert configuration to json: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("configuration is not valid: %w", err)
	}

	return nil
}
