// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/cmd/cmdutil"
	"github.com/sighupio/rimectl/internal/store"
)

const maxCellWidth = 60

func newListCmd(st *rootState) *cobra.Command {
	var (
		filter         string
		customizedOnly bool
	)

	cmd := &cobra.Command{
		Use:     "list <domain>",
		Aliases: []string{"ls"},
		Short:   "List every leaf path of a domain with its effective value",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domainArg(args[0])
			if err != nil {
				return err
			}

			return st.withStore(cmd.Context(), func(s *store.Store) error {
				t := newTable(cmd.OutOrStdout(), st.settings.DisableColors)
				t.AppendHeader(table.Row{"PATH", "VALUE", "CUSTOMIZED"})

				for _, key := range listedKeys(s, d, filter, customizedOnly) {
					v, _ := s.Get(d, key)

					mark := ""
					if s.IsCustomized(d, key) {
						mark = colorize(text.FgGreen, "yes", st.settings.DisableColors)
					}

					t.AppendRow(table.Row{key, cmdutil.Truncate(v.String(), maxCellWidth), mark})
				}

				t.Render()

				return nil
			})
		},
		ValidArgsFunction: completeDomain,
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list paths containing this text")
	cmd.Flags().BoolVar(&customizedOnly, "customized", false, "Only list customized paths")

	return cmd
}

// listedKeys returns the merged leaf paths, or the customized keys when customizedOnly is
// set, keeping those containing filter.
func listedKeys(s *store.Store, d store.Domain, filter string, customizedOnly bool) []string {
	var keys []string

	if customizedOnly {
		keys = s.Customizations(d).Keys()
	} else {
		keys = s.ListKeys(d)
	}

	out := make([]string, 0, len(keys))

	for _, key := range keys {
		if filter != "" && !strings.Contains(key, filter) {
			continue
		}

		out = append(out, key)
	}

	return out
}

func newTable(w io.Writer, disableColors bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	if !disableColors {
		t.Style().Color.Header = text.Colors{text.FgHiCyan}
	}

	return t
}

func colorize(c text.Color, s string, disableColors bool) string {
	if disableColors {
		return s
	}

	return c.Sprint(s)
}
