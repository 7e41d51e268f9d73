// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/internal/lockfile"
	"github.com/sighupio/rimectl/internal/store"
	"github.com/sighupio/rimectl/internal/watcher"
	"github.com/sighupio/rimectl/internal/writer"
)

func newWatchCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload domains whenever their files change, until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lock := lockfile.NewLockFile("", st.settings.ConfigDir)
			if err := lock.Create(); err != nil {
				return err
			}

			defer func() {
				if err := lock.Remove(); err != nil {
					logrus.Warn(err)
				}
			}()

			reportWrite := func(res writer.Result) {
				if res.Err != nil {
					logrus.Errorf("Could not save %s: %v", res.Key, res.Err)
				}
			}

			return st.withStore(ctx, func(s *store.Store) error {
				w := watcher.New(s.Dir(), s, watcher.WithReloadHandler(func(d store.Domain, err error) {
					if err == nil {
						logrus.Infof("%s now has %d customizations", d, len(s.Customizations(d)))
					}
				}))

				logrus.Infof("Watching %s, press Ctrl+C to stop", s.Dir())

				return w.Run(ctx)
			}, store.WithResultHandler(reportWrite))
		},
	}
}
