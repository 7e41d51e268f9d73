// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sighupio/rimectl/internal/config"
	"github.com/sighupio/rimectl/internal/store"
	logrusx "github.com/sighupio/rimectl/internal/x/logrus"
)

// rootState is shared by every command of one root command instance.
type rootState struct {
	viper     *viper.Viper
	settings  config.Settings
	logCloser io.Closer
}

func NewRootCmd(versions map[string]string) *cobra.Command {
	st := &rootState{viper: viper.New()}

	config.SetDefaults(st.viper)

	rootCmd := &cobra.Command{
		Use:   "rimectl",
		Short: "Inspect and customize Rime configuration through patch files",
		Long: "rimectl reads the shipped configuration of each domain, applies the customizations " +
			"kept in the matching .custom.yaml patch file and edits those customizations " +
			"without ever writing the shipped files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.FromViper(st.viper)
			if err != nil {
				return err
			}

			closer, err := logrusx.InitLog(logrus.StandardLogger(), cmd.ErrOrStderr(), logrusx.Options{
				LogFile:       settings.LogFile,
				Debug:         settings.Debug,
				DisableColors: settings.DisableColors,
			})
			if err != nil {
				return fmt.Errorf("error while initializing logs: %w", err)
			}

			st.settings = settings
			st.logCloser = closer

			logrus.Debugf("Using configuration directory %s", settings.ConfigDir)

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if st.logCloser != nil {
				_ = st.logCloser.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyConfigDir, config.DefaultConfigDir, "Directory holding the configuration files")
	flags.Duration(config.KeyDebounce, st.viper.GetDuration(config.KeyDebounce), "Quiet time before an edit is saved")
	flags.Bool(config.KeyDebug, false, "Enables debug output")
	flags.String(config.KeyLogFile, "", "Also write JSON logs to this file")
	flags.Bool(config.KeyNoColors, false, "Disable colored output")

	if err := st.viper.BindPFlags(flags); err != nil {
		logrus.Fatalf("error while binding flags: %v", err)
	}

	rootCmd.AddCommand(
		newGetCmd(st),
		newSetCmd(st),
		newRemoveCmd(st),
		newListCmd(st),
		newCustomizedCmd(st),
		newStatusCmd(st),
		newPairCmd(st),
		newEditCmd(st),
		newDiffCmd(st),
		newValidateCmd(st),
		newWatchCmd(st),
		NewVersionCmd(versions),
		NewCompletionCmd(),
	)

	return rootCmd
}

// withStore loads every domain, runs fn and saves pending edits before returning.
func (st *rootState) withStore(ctx context.Context, fn func(*store.Store) error, opts ...store.Option) (err error) {
	opts = append([]store.Option{store.WithDebounce(st.settings.Debounce)}, opts...)

	s := store.New(st.settings.ConfigDir, opts...)

	if err := s.LoadAll(ctx); err != nil {
		return err
	}

	defer func() {
		// Pending edits are saved even when ctx was cancelled by an interrupt.
		if cerr := s.Close(context.WithoutCancel(ctx)); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return fn(s)
}

func domainArg(arg string) (store.Domain, error) {
	d, err := store.ParseDomain(arg)
	if err != nil {
		return "", fmt.Errorf("%w, expected one of %v", err, store.Domains())
	}

	return d, nil
}
