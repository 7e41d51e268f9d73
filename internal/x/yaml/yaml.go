// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yamlx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FromFile reads path and decodes it into T. Read errors wrap the underlying fs error.
func FromFile[T any](path string) (T, error) {
	var data T

	res, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("error while reading file from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(res, &data); err != nil {
		return data, fmt.Errorf("error while unmarshalling file from %s: %w", path, err)
	}

	return data, nil
}
