// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
	"github.com/sighupio/rimectl/internal/store"
)

func newSetCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "set <domain> <path> <value>",
		Short: "Customize the value at a path",
		Long: "Customize the value at a path. The value is read as YAML: 18 is an integer, " +
			"'18' a string and [a, b] a list. The shipped file is left untouched.",
		Example: "  rimectl set squirrel style/font_point 18\n" +
			"  rimectl set default switcher/hotkeys '[Control+grave, F4]'",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			v, err := cmdutil.ParseValue(args[2])
			if err != nil {
				return err
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				if err := s.Set(d, args[1], v); err != nil {
					return fmt.Errorf("error while customizing %s: %w", args[1], err)
				}

				logrus.Infof("Customized %s in %s", args[1], d.PatchFile())

				return nil
			})
		},
		ValidArgsFunction: completeDomain,
	}
}
