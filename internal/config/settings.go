// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sighupio/rimectl/internal/writer"
)

const (
	KeyConfigDir = "config-dir"
	KeyDebounce  = "debounce"
	KeyDebug     = "debug"
	KeyLogFile   = "log-file"
	KeyNoColors  = "no-colors"

	EnvPrefix = "rimectl"
)

var ErrInvalidSettings = errors.New("invalid settings")

// DefaultConfigDir is where the input method keeps its user configuration.
var DefaultConfigDir = filepath.Join("~", "Library", "Rime") //nolint:gochecknoglobals // computed default.

type Settings struct {
	ConfigDir     string        `validate:"required"`
	Debounce      time.Duration `validate:"gt=0"`
	Debug         bool
	LogFile       string
	DisableColors bool
}

// SetDefaults registers the default of every setting on v and binds RIMECTL_* variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyConfigDir, DefaultConfigDir)
	v.SetDefault(KeyDebounce, writer.DefaultWindow)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyNoColors, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// FromViper reads and validates the settings held by v.
func FromViper(v *viper.Viper) (Settings, error) {
	dir, err := ExpandHome(v.GetString(KeyConfigDir))
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		ConfigDir:     dir,
		Debounce:      v.GetDuration(KeyDebounce),
		Debug:         v.GetBool(KeyDebug),
		LogFile:       v.GetString(KeyLogFile),
		DisableColors: v.GetBool(KeyNoColors),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return nil
}

// ExpandHome replaces a leading "~" with the user home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error while getting user home directory: %w", err)
	}

	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
