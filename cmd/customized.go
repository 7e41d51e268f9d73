// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
	"github.com/sighupio/rimectl/internal/store"
)

func newCustomizedCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "customized <domain> <path>",
		Short: "Print whether the exact path is customized",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), s.IsCustomized(d, args[1])); err != nil {
					return fmt.Errorf("%w: %w", cmdutil.ErrWritingOutput, err)
				}

				return nil
			})
		},
		ValidArgsFunction: completeDomain,
	}
}
