// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package logrusx_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logrusx "github.com/sighupio/rimectl/internal/x/logrus"
)

func TestInitLog_Console(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	logger := logrus.New()

	closer, err := logrusx.InitLog(logger, &out, logrusx.Options{DisableColors: true})
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	logger.Info("saved menu/page_size")
	logger.Debug("hidden")

	assert.Contains(t, out.String(), "saved menu/page_size")
	assert.NotContains(t, out.String(), "hidden")
}

func TestInitLog_DebugAndFile(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	logFile := filepath.Join(t.TempDir(), "logs", "rimectl.log")
	logger := logrus.New()

	closer, err := logrusx.InitLog(logger, &out, logrusx.Options{
		LogFile:       logFile,
		Debug:         true,
		DisableColors: true,
	})
	require.NoError(t, err)

	logger.Debug("reloading default")
	logger.Trace("not even in the file")

	require.NoError(t, closer.Close())

	assert.Contains(t, out.String(), "reloading default")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"reloading default"`)
	assert.NotContains(t, string(data), "not even in the file")
}

func TestConsoleLevels(t *testing.T) {
	t.Parallel()

	assert.NotContains(t, logrusx.ConsoleLevels(false), logrus.DebugLevel)
	assert.Contains(t, logrusx.ConsoleLevels(true), logrus.DebugLevel)
}
