package utils

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"os"
)

// CLI tool helpers
func MakeCompletionCmd() *cobra.Command {
	var completionCmd = &cobra.Command{
		Use:   "completion",
		Short: "Generates bash/zsh completion scripts",
		Long: `To load completion run
	. <(oraping completion)
	To configure your bash or zsh shell to load completions for each session add to your
	# ~/.bashrc or ~/.profile
	. <(oraping completion)
	`,
		Run: func(cmd *cobra.Command, args []string) {
			if GetFlagB(cmd.Flags(), "zsh") {
				_ = cmd.Parent().GenZshCompletion(os.Stdout)
			} else {
				_ = cmd.Parent().GenBashCompletion(os.Stdout)
			}
		},
	}
	completionCmd.Flags().BoolP("zsh", "z", false, "Generate ZSH completion")

	return completionCmd
}

func GetFlagS(flags *pflag.FlagSet, name string) string {
	val, err := flags.GetString(name)
	PanicIfF(err != nil, "bad string flag %s: %v", name, err)
	return val
}

func GetFlagB(flags *pflag.FlagSet, name string) bool {
	val, err := flags.GetBool(name)
	PanicIfF(err != nil, "bad bool flag %s: %v", name, err)
	return val
}
