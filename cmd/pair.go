// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
	"github.com/sighupio/rimectl/internal/store"
	"github.com/sighupio/rimectl/internal/virtual"
)

func newPairCmd(st *rootState) *cobra.Command {
	pairCmd := &cobra.Command{
		Use:   "pair",
		Short: "Read or write hotkey pairs stored across key binder entries",
		Long: "Hotkey pairs are virtual fields: " + strings.Join(virtual.Fields(), ", ") + ". " +
			"Each pair is written as <a>:<b>.",
	}

	pairCmd.AddCommand(
		&cobra.Command{
			Use:       "get <field>",
			Short:     "Print the pairs of a virtual field, one per line",
			Args:      cobra.ExactArgs(1),
			ValidArgs: virtual.Fields(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return st.withStore(cmd.Context(), func(s *store.Store) error {
					pairs, err := virtual.NewResolver(s).Read(args[0])
					if err != nil {
						return err
					}

					for _, p := range pairs {
						if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
							return fmt.Errorf("%w: %w", cmdutil.ErrWritingOutput, err)
						}
					}

					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "set <field> [<a>:<b>...]",
			Short:   "Replace the pairs of a virtual field; no pairs clears it",
			Example: "  rimectl pair set page_pair minus:equal comma:period",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				pairs := make([]virtual.Pair, 0, len(args)-1)

				for _, arg := range args[1:] {
					p, err := virtual.ParsePair(arg)
					if err != nil {
						return err
					}

					pairs = append(pairs, p)
				}

				return st.withStore(cmd.Context(), func(s *store.Store) error {
					if err := virtual.NewResolver(s).Write(args[0], pairs); err != nil {
						return err
					}

					logrus.Infof("Saved %d pairs for %s", len(pairs), args[0])

					return nil
				})
			},
		},
	)

	return pairCmd
}
