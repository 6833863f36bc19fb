package cli

import "github.com/spf13/cobra"

func newCompletionCmd() *cobra.Command {
	completion := &cobra.Command{
		Use:     "completion [bash|zsh|fish|powershell]",
		Short:   "Generate shell completion scripts",
		GroupID: "utility",
		Long: `Generate shell completion scripts for domainmate.

To load completions:

Bash:
  $ source <(domainmate completion bash)

Zsh:
  $ source <(domainmate completion zsh)

  # To load completions for each session, execute once:
  $ domainmate completion zsh > "${fpath[1]}/_domainmate"

Fish:
  $ domainmate completion fish | source

PowerShell:
  PS> domainmate completion powershell | Out-String | Invoke-Expression`,
		// Override root's PersistentPreRunE: buildDeps must not run during
		// tab-completion because it reads config files. This is the only
		// subcommand permitted to override PersistentPreRunE without calling
		// buildDeps.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}

	completion.AddCommand(
		newCompletionShellCmd("bash", func(cmd *cobra.Command) error {
			return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
		}),
		newCompletionShellCmd("zsh", func(cmd *cobra.Command) error {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		}),
		newCompletionShellCmd("fish", func(cmd *cobra.Command) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		}),
		newCompletionShellCmd("powershell", func(cmd *cobra.Command) error {
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}),
	)

	return completion
}

func newCompletionShellCmd(shell string, gen func(cmd *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:                   shell,
		Short:                 "Generate " + shell + " completion script",
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return gen(cmd)
		},
	}
}
