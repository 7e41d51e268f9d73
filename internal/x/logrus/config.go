// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logrusx

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	iox "github.com/sighupio/rimectl/internal/x/io"
)

type Options struct {
	// LogFile receives every entry as JSON when set. Console output is unaffected.
	LogFile       string
	Debug         bool
	DisableColors bool
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

type formatterHook struct {
	Writer    io.Writer
	LogLevels []logrus.Level
	Formatter logrus.Formatter
}

func (hook *formatterHook) Fire(entry *logrus.Entry) error {
	line, err := hook.Formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("error while formatting log entry: %w", err)
	}

	if _, err := hook.Writer.Write(line); err != nil {
		return fmt.Errorf("error while writing log entry: %w", err)
	}

	return nil
}

func (hook *formatterHook) Levels() []logrus.Level {
	return hook.LogLevels
}

// ConsoleLevels returns the levels printed on the console.
func ConsoleLevels(debug bool) []logrus.Level {
	levels := []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}

	if debug {
		levels = append(levels, logrus.DebugLevel)
	}

	return levels
}

// InitLog configures logger: text entries on console, plus JSON entries in opts.LogFile.
// The returned closer releases the log file.
func InitLog(logger *logrus.Logger, console io.Writer, opts Options) (io.Closer, error) {
	logger.SetOutput(io.Discard)
	logger.ReplaceHooks(make(logrus.LevelHooks))

	logger.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.AddHook(&formatterHook{
		Writer: console,
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
			ForceColors:      !opts.DisableColors,
			DisableColors:    opts.DisableColors,
		},
		LogLevels: ConsoleLevels(opts.Debug),
	})

	if opts.LogFile == "" {
		return noopCloser{}, nil
	}

	if err := iox.EnsureDir(opts.LogFile); err != nil {
		return nil, fmt.Errorf("error while creating log directory: %w", err)
	}

	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, iox.RWPermAccess)
	if err != nil {
		return nil, fmt.Errorf("error while opening log file: %w", err)
	}

	logger.AddHook(&formatterHook{
		Writer:    f,
		Formatter: &logrus.JSONFormatter{},
		LogLevels: logrus.AllLevels,
	})

	return f, nil
}
