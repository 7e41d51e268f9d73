// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
	"github.com/sighupio/rimectl/internal/store"
)

func newEditCmd(st *rootState) *cobra.Command {
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Read or replace a patch file as raw text",
	}

	editCmd.AddCommand(
		&cobra.Command{
			Use:   "show <domain>",
			Short: "Print the patch file of a domain",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := domainArg(args[0])
				if err != nil {
					return err
				}

				return st.withStore(cmd.Context(), func(s *store.Store) error {
					content, err := s.LoadRawText(d)
					if err != nil {
						return err
					}

					if _, err := io.WriteString(cmd.OutOrStdout(), content); err != nil {
						return fmt.Errorf("%w: %w", cmdutil.ErrWritingOutput, err)
					}

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "save <domain> <file>",
			Short: "Replace the patch file of a domain with the content of file, or stdin for -",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := domainArg(args[0])
				if err != nil {
					return err
				}

				content, err := readInput(cmd.InOrStdin(), args[1])
				if err != nil {
					return err
				}

				return st.withStore(cmd.Context(), func(s *store.Store) error {
					if err := s.SaveRawText(cmd.Context(), d, string(content)); err != nil {
						return err
					}

					logrus.Infof("Replaced %s", s.PatchPath(d))

					return nil
				})
			},
		},
	)

	return editCmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error while reading stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error while reading %s: %w", path, err)
	}

	return data, nil
}
