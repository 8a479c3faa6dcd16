// Package completion provides the shell completion command.
package completion

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/cmd/output"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// Shells lists the shells a completion script can be generated for.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// NewCommand creates the completion command. It replaces cobra's default
// so the scripts can be written from one place and flag values complete.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate a shell completion script",
		Long: fmt.Sprintf(`Generate the autocompletion script for rollcall.

Supported shells: %s.

To load completions in your current shell session:

  source <(rollcall completion bash)
  rollcall completion fish | source

To load completions for every new session, write the script to your
shell's completion directory, for example:

  rollcall completion zsh > "${fpath[1]}/_rollcall"`, strings.Join(Shells, ", ")),
		ValidArgs:             Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// RegisterFlagValues adds value completion for the enumerated flags of
// root and every subcommand that defines them.
func RegisterFlagValues(root *cobra.Command) {
	formats := make([]string, 0, len(output.Formats()))
	for _, f := range output.Formats() {
		formats = append(formats, string(f))
	}
	layers := make([]string, 0, len(resolver.Layers()))
	for _, l := range resolver.Layers() {
		layers = append(layers, l.String())
	}
	classes := make([]string, 0, len(roster.Classifications()))
	for _, c := range roster.Classifications() {
		classes = append(classes, string(c))
	}
	flags := make([]string, 0, len(audit.Flags()))
	for _, f := range audit.Flags() {
		flags = append(flags, string(f))
	}

	values := map[string][]string{
		"format": formats,
		"layer":  layers,
		"only":   classes,
		"flag":   flags,
	}
	walk(root, func(cmd *cobra.Command) {
		for name, choices := range values {
			if cmd.LocalNonPersistentFlags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp))
		}
	})
}

func walk(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, c := range cmd.Commands() {
		walk(c, fn)
	}
}
