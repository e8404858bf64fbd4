package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/scene"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for icongrid.

To load completions:

Bash:
  $ source <(icongrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ icongrid completion bash > /etc/bash_completion.d/icongrid
  # macOS:
  $ icongrid completion bash > $(brew --prefix)/etc/bash_completion.d/icongrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ icongrid completion zsh > "${fpath[1]}/_icongrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ icongrid completion fish | source

  # To load completions for each session, execute once:
  $ icongrid completion fish > ~/.config/fish/completions/icongrid.fish

PowerShell:
  PS> icongrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> icongrid completion powershell > icongrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeScene completes the single scene file argument of a command.
func completeScene(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	exts := make([]string, len(scene.Extensions))
	for i, ext := range scene.Extensions {
		exts[i] = strings.TrimPrefix(ext, ".")
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}
