// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/internal/schema/santhosh"
	"github.com/sighupio/rimectl/internal/store"
)

func newValidateCmd(st *rootState) *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate <domain>",
		Short: "Validate the effective configuration of a domain against a JSON schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			schema, err := santhosh.LoadSchema(schemaPath)
			if err != nil {
				return fmt.Errorf("error loading schema: %w", err)
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				err := santhosh.Validate(schema, s.Merged(d))
				if err == nil {
					logrus.Infof("%s is valid", d)

					return nil
				}

				violations := santhosh.GetViolations(err)
				if len(violations) == 0 {
					return err
				}

				t := newTable(cmd.OutOrStdout(), st.settings.DisableColors)
				t.AppendHeader(table.Row{"PATH", "PROBLEM", "CUSTOMIZED"})

				for _, v := range violations {
					customized := ""
					if s.IsCustomized(d, v.Path) {
						customized = "yes"
					}

					t.AppendRow(table.Row{v.Path, v.Message, customized})
				}

				t.Render()

				return ErrValidationFailed
			})
		},
		ValidArgsFunction: completeDomain,
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON or YAML schema file")

	if err := cmd.MarkFlagRequired("schema"); err != nil {
		logrus.Fatalf("error while marking flag as required: %v", err)
	}

	return cmd
}
