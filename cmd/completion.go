package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// completionShells maps a shell name to the cobra generator for it.
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// writeCompletion writes the completion script for shell to w.
func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	gen, ok := completionShells[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q", shell)
	}
	return gen(root, w)
}

// --- Cobra wiring ---

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print the nftlens completion script for bash, zsh, fish or powershell.

Source it for the current session, e.g. source <(nftlens completion bash), or
write it to your shell's completion directory to keep it.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             lo.Keys(completionShells),
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// completion must work without a readable config file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(cmd.Root(), args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
