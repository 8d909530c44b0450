package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrUnsatisfied is returned when the installed packages do not match the
// manifest, or the repair command failed. It carries no message for the user.
var ErrUnsatisfied = errors.New("installed packages do not match the manifest")

var (
	version = "dev"

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// checkFlags holds the flag values of the root command.
type checkFlags struct {
	chdir          string
	all            bool
	noUnwanted     bool
	install        bool
	noFrom         bool
	noColor        bool
	jsonOutput     bool
	manifest       string
	modules        string
	packageManager string
	concurrency    int
}

// SetVersion sets the version reported by --version and the version command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// customHelpFunc returns a custom help function that colors group titles
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")

		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

// newRootCmd builds the modcheck command tree. The root command runs the check.
func newRootCmd() *cobra.Command {
	flags := &checkFlags{}

	rootCmd := &cobra.Command{
		Use:     "modcheck [flags]",
		Version: version,
		Short:   "Check node_modules against npm-shrinkwrap.json",
		Long: `modcheck quickly checks that the contents of node_modules correspond to
npm-shrinkwrap.json. With --install it runs 'npm install --no-save' for every
missing or mismatched package.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(context.Background(), cmd, flags)
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetHelpFunc(customHelpFunc)

	f := rootCmd.Flags()
	f.StringVarP(&flags.chdir, "chdir", "C", "", "Work in the given directory instead of the current one")
	f.BoolVarP(&flags.all, "all", "v", false, "Print all packages, not only the problem ones")
	f.BoolVar(&flags.noUnwanted, "no-unwanted", false, "Ignore installed packages not listed in the manifest")
	f.BoolVar(&flags.install, "install", false, "Run 'npm install --no-save' for all missing and mismatched packages")
	f.BoolVar(&flags.noFrom, "no-from", false, "Ignore differences between package sources")
	f.BoolVar(&flags.noColor, "no-color", false, "Suppress color output even when the output is a TTY")
	f.StringVar(&flags.manifest, "manifest", "", "Lock manifest, relative to the working directory (default npm-shrinkwrap.json)")
	f.StringVar(&flags.modules, "modules", "", "Installed-packages directory, relative to the working directory (default node_modules)")
	f.StringVar(&flags.packageManager, "package-manager", "", "Command used to install packages (default npm)")
	f.IntVar(&flags.concurrency, "concurrency", 0, "Number of package descriptors read in parallel (default 8)")

	rootCmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the modcheck CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.Root().Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Root().Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for modcheck for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "bash",
		Short:                 "Generate the autocompletion script for bash",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "zsh",
		Short:                 "Generate the autocompletion script for zsh",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "fish",
		Short:                 "Generate the autocompletion script for fish",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "powershell",
		Short:                 "Generate the autocompletion script for powershell",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})
	return completionCmd
}

// Execute executes the root command.
func Execute() error {
	return newRootCmd().Execute()
}
