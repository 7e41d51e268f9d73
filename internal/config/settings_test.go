// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unit

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sighupio/rimectl/internal/config"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)

	s, err := config.FromViper(v)
	require.NoError(t, err)

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(homeDir, "Library", "Rime"), s.ConfigDir)
	assert.Equal(t, 300*time.Millisecond, s.Debounce)
	assert.False(t, s.Debug)
	assert.False(t, s.DisableColors)
	assert.Empty(t, s.LogFile)
}

func TestFromViper_Overrides(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)

	v.Set(config.KeyConfigDir, "/tmp/rime")
	v.Set(config.KeyDebounce, "1s")
	v.Set(config.KeyDebug, true)
	v.Set(config.KeyNoColors, true)

	s, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/rime", s.ConfigDir)
	assert.Equal(t, time.Second, s.Debounce)
	assert.True(t, s.Debug)
	assert.True(t, s.DisableColors)
}

func TestFromViper_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc string
		key  string
		val  any
	}{
		{desc: "empty config dir", key: config.KeyConfigDir, val: ""},
		{desc: "zero debounce", key: config.KeyDebounce, val: "0s"},
		{desc: "negative debounce", key: config.KeyDebounce, val: "-1s"},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			config.SetDefaults(v)
			v.Set(tC.key, tC.val)

			_, err := config.FromViper(v)
			assert.ErrorIs(t, err, config.ErrInvalidSettings)
		})
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := config.ExpandHome("~/Rime")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "Rime"), got)

	got, err = config.ExpandHome("/abs/~/x")
	require.NoError(t, err)
	assert.Equal(t, "/abs/~/x", got)

	got, err = config.ExpandHome("~other")
	require.NoError(t, err)
	assert.Equal(t, "~other", got)
}
