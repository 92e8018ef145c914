// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installHints = map[string]string{
	"bash":       "fontkit completion bash > /etc/bash_completion.d/fontkit",
	"zsh":        "fontkit completion zsh > ~/.zsh/completions/_fontkit",
	"fish":       "fontkit completion fish > ~/.config/fish/completions/fontkit.fish",
	"powershell": "fontkit completion powershell >> $PROFILE",
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for fontkit.

Install instructions:
  Bash:       fontkit completion bash > /etc/bash_completion.d/fontkit
  Zsh:        fontkit completion zsh > ~/.zsh/completions/_fontkit
  Fish:       fontkit completion fish > ~/.config/fish/completions/fontkit.fish
  PowerShell: fontkit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, ok := installHints[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# fontkit %s completion\n", args[0])
			fmt.Fprintf(out, "# Install: %s\n\n", hint)

			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
