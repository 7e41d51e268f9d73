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

func newGetCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "get <domain> <path>",
		Short:   "Print the effective value at a path",
		Example: "  rimectl get default menu/page_size",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				v, ok := s.Get(d, args[1])
				if !ok {
					return fmt.Errorf("%w: %s in %s", cmdutil.ErrKeyNotFound, args[1], d)
				}

				return cmdutil.PrintValue(cmd.OutOrStdout(), v)
			})
		},
		ValidArgsFunction: completeDomain,
	}
}
