// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sighupio/rimectl/internal/store"
)

func NewCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load rimectl completions:

	Bash:

	$ source <(rimectl completion bash)

	Zsh:

	$ rimectl completion zsh > "${fpath[1]}/_rimectl"

	fish:

	$ rimectl completion fish | source

	PowerShell:

	PS> rimectl completion powershell | Out-String | Invoke-Expression
	`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion scripts must not depend on a readable configuration directory.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error

			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)

			case "zsh":
				err = cmd.Root().GenZshCompletion(out)

			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)

			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}

			if err != nil {
				return fmt.Errorf("error generating %s completion: %w", args[0], err)
			}

			return nil
		},
	}
}

// completeDomain completes the first positional argument with the domain names.
func completeDomain(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}

	names := make([]string, 0, len(store.Domains()))
	for _, d := range store.Domains() {
		names = append(names, string(d))
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}
