// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
	"github.com/sighupio/rimectl/internal/diffs"
	"github.com/sighupio/rimectl/internal/store"
)

func newDiffCmd(st *rootState) *cobra.Command {
	var (
		path   string
		locked []string
	)

	cmd := &cobra.Command{
		Use:   "diff <domain>",
		Short: "Show how the customizations change the shipped configuration",
		Long: "Show how the customizations change the shipped configuration. Lines start with " +
			"+ for added values, - for removed values and ~ for changed values.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				checker := diffs.NewBaseChecker(s.Base(d), s.Merged(d))

				changelog, err := checker.GenerateDiff()
				if err != nil {
					return err
				}

				changelog = checker.FilterDiffFromPath(changelog, path)

				if len(changelog) == 0 {
					logrus.Info("No differences found")
				}

				if _, err := io.WriteString(cmd.OutOrStdout(), checker.DiffToString(changelog)); err != nil {
					return fmt.Errorf("%w: %w", cmdutil.ErrWritingOutput, err)
				}

				if errs := checker.AssertLockedViolations(changelog, locked); len(errs) > 0 {
					return fmt.Errorf("%w: %w", ErrLockedChanged, errors.Join(errs...))
				}

				return nil
			})
		},
		ValidArgsFunction: completeDomain,
	}

	cmd.Flags().StringVar(&path, "path", "", "Only show changes at or below this path")
	cmd.Flags().StringSliceVar(&locked, "locked", nil,
		"Fail when any of these paths is changed; * matches a list index")

	return cmd
}
