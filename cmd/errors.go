// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import "errors"

var (
	ErrValidationFailed = errors.New("configuration validation failed")
	ErrLockedChanged    = errors.New("locked paths are customized")
)
