// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/internal/store"
)

func newRemoveCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <domain> <path>",
		Aliases: []string{"rm", "reset"},
		Short:   "Drop the customization at a path, restoring the shipped value",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				if !s.IsCustomized(d, args[1]) {
					logrus.Warnf("%s is not customized in %s", args[1], d)

					return nil
				}

				if err := s.Remove(d, args[1]); err != nil {
					return fmt.Errorf("error while removing %s: %w", args[1], err)
				}

				logrus.Infof("Removed customization %s from %s", args[1], d.PatchFile())

				return nil
			})
		},
		ValidArgsFunction: completeDomain,
	}
}
