package main

import (
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for p2pwatch.

Completions cover subcommands and flag values: --format, --log-level,
directories for --log-dir and YAML/TOML files for --rules.

Bash:
  $ source <(p2pwatch completion bash)

Zsh:
  $ p2pwatch completion zsh > "${fpath[1]}/_p2pwatch"

Fish:
  $ p2pwatch completion fish > ~/.config/fish/completions/p2pwatch.fish

PowerShell:
  PS> p2pwatch completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, out := cmd.Root(), cmd.OutOrStdout()
		switch args[0] {
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		default:
			return root.GenBashCompletionV2(out, true)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

var registerOnce sync.Once

// registerFlagCompletions attaches value completions to flags. It runs
// after every command's init so all flags exist.
func registerFlagCompletions() {
	registerOnce.Do(func() {
		fixed := func(values ...string) cobra.CompletionFunc {
			return cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
		}

		formats := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			formats = append(formats, f)
		}
		sort.Strings(formats)

		cobra.CheckErr(rootCmd.RegisterFlagCompletionFunc("log-level",
			fixed("debug", "info", "warn", "error")))
		cobra.CheckErr(rootCmd.RegisterFlagCompletionFunc("log-dir",
			func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
				return nil, cobra.ShellCompDirectiveFilterDirs
			}))
		cobra.CheckErr(scanCmd.RegisterFlagCompletionFunc("format", fixed(formats...)))

		rulesFiles := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
		}
		cobra.CheckErr(scanCmd.RegisterFlagCompletionFunc("rules", rulesFiles))
		cobra.CheckErr(watchCmd.RegisterFlagCompletionFunc("rules", rulesFiles))
		cobra.CheckErr(watchCmd.RegisterFlagCompletionFunc("interval",
			fixed("1m", "5m", "10m", "15m", "30m")))
	})
}
