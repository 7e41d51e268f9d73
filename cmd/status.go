// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/internal/store"
)

func newStatusCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which files were found for each domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.withStore(cmd.Context(), func(s *store.Store) error {
				t := newTable(cmd.OutOrStdout(), st.settings.DisableColors)
				t.AppendHeader(table.Row{"DOMAIN", "BASE", "PATCH", "CUSTOMIZATIONS"})

				for _, d := range store.Domains() {
					status, err := s.Status(d)
					if err != nil {
						return err
					}

					base := presence(status.BaseFound, st.settings.DisableColors)
					if status.Fallback {
						base = colorize(text.FgYellow, "bundled example", st.settings.DisableColors)
					}

					t.AppendRow(table.Row{
						string(d),
						base,
						presence(status.PatchFound, st.settings.DisableColors),
						strconv.Itoa(status.Customizations),
					})
				}

				t.Render()

				return nil
			})
		},
	}
}

func presence(found, disableColors bool) string {
	if found {
		return colorize(text.FgGreen, "found", disableColors)
	}

	return colorize(text.FgHiBlack, "missing", disableColors)
}
