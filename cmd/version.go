// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
)

func NewVersionCmd(versions map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rimectl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range slices.Sorted(maps.Keys(versions)) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, versions[k]); err != nil {
					return fmt.Errorf("%w: %w", cmdutil.ErrWritingOutput, err)
				}
			}

			return nil
		},
	}
}
