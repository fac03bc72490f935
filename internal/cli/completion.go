package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. PowerShell comes first:
// most nugetviz users run it next to Visual Studio.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [powershell|bash|zsh]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for nugetviz.

PowerShell:
  PS> nugetviz completion powershell | Out-String | Invoke-Expression

  # Add the line above to $PROFILE to load completions in every session.

Bash:
  $ source <(nugetviz completion bash)

Zsh:
  $ nugetviz completion zsh > "${fpath[1]}/_nugetviz"
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"powershell", "bash", "zsh"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(c.Out)
			case "bash":
				return root.GenBashCompletionV2(c.Out, true)
			default:
				return root.GenZshCompletion(c.Out)
			}
		},
	}
}
